package book_resource

import (
	"fmt"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ResourceID <= 0 {
		return fmt.Errorf("%w: resourceID must be positive", domain.ErrInvalidInput)
	}

	if req.AppointmentID != nil && *req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentID must be positive", domain.ErrInvalidInput)
	}

	return domain.ValidateInterval(req.StartAt, req.EndAt)
}
