package get_doctor_schedules

import (
	"context"

	"github.com/m04kA/SMC-ClinicBooking/internal/service/schedules/models"
)

type ScheduleService interface {
	ListByDoctor(ctx context.Context, doctorID int64) (*models.ScheduleListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
