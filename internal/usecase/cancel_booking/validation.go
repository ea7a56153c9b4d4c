package cancel_booking

import (
	"fmt"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", domain.ErrInvalidInput)
	}
	if req.Kind != nil {
		return req.Kind.Validate()
	}
	return nil
}
