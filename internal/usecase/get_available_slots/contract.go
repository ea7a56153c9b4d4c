package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
)

// DoctorRepository интерфейс чтения врачей
type DoctorRepository interface {
	GetDoctor(ctx context.Context, id int64) (*domain.Doctor, error)
}

// ScheduleRepository интерфейс репозитория шаблонов расписания
type ScheduleRepository interface {
	GetByDoctorAndDay(ctx context.Context, doctorID int64, day domain.DayOfWeek) (*domain.ScheduleTemplate, error)
}

// CommitmentRepository интерфейс репозитория броней
type CommitmentRepository interface {
	ListActiveOverlapping(ctx context.Context, kind domain.SubjectKind, subjectID int64, start, end time.Time, excludeIDs ...int64) ([]*domain.Commitment, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
