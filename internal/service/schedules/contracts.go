package schedules

import (
	"context"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
)

// ScheduleRepository интерфейс репозитория шаблонов расписания
type ScheduleRepository interface {
	Create(ctx context.Context, t *domain.ScheduleTemplate) (*domain.ScheduleTemplate, error)
	GetByID(ctx context.Context, id int64) (*domain.ScheduleTemplate, error)
	ListByDoctor(ctx context.Context, doctorID int64) ([]*domain.ScheduleTemplate, error)
	Update(ctx context.Context, t *domain.ScheduleTemplate) (*domain.ScheduleTemplate, error)
	Delete(ctx context.Context, id int64) error
}

// DoctorRepository интерфейс чтения врачей
type DoctorRepository interface {
	GetDoctor(ctx context.Context, id int64) (*domain.Doctor, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
