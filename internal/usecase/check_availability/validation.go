package check_availability

import (
	"fmt"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if err := req.Kind.Validate(); err != nil {
		return err
	}

	if req.SubjectID <= 0 {
		return fmt.Errorf("%w: id must be positive", domain.ErrInvalidInput)
	}

	return domain.ValidateInterval(req.StartAt, req.EndAt)
}
