package create_appointment

import (
	"fmt"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса и возвращает план блокировок
func validateRequest(req *Request) (domain.LockPlan, error) {
	if req.DoctorID <= 0 {
		return domain.LockPlan{}, fmt.Errorf("%w: doctorID must be positive", domain.ErrInvalidInput)
	}

	if req.PatientID <= 0 {
		return domain.LockPlan{}, fmt.Errorf("%w: patientID must be positive", domain.ErrInvalidInput)
	}

	if req.StartAt.IsZero() {
		return domain.LockPlan{}, fmt.Errorf("%w: startAt is required", domain.ErrInvalidInput)
	}

	if len(req.ResourceIDs) > domain.MaxResourcesPerBooking {
		return domain.LockPlan{}, fmt.Errorf("%w: at most %d resources per appointment",
			domain.ErrInvalidInput, domain.MaxResourcesPerBooking)
	}

	// Повторный ресурс в одном запросе - ошибка ввода, а не двойная бронь
	resourceIDs, err := domain.SortedUniqueIDs(req.ResourceIDs)
	if err != nil {
		return domain.LockPlan{}, fmt.Errorf("resourceIds: %w", err)
	}

	doctorID := req.DoctorID
	plan := domain.LockPlan{
		DoctorID:    &doctorID,
		ResourceIDs: resourceIDs,
	}
	if req.RoomID != nil {
		if *req.RoomID <= 0 {
			return domain.LockPlan{}, fmt.Errorf("%w: roomID must be positive", domain.ErrInvalidInput)
		}
		plan.RoomIDs = []int64{*req.RoomID}
	}
	return plan, nil
}
