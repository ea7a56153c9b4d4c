package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
	"github.com/m04kA/SMC-ClinicBooking/internal/service/capacity"
)

// PatientRepository интерфейс чтения пациентов
type PatientRepository interface {
	GetPatient(ctx context.Context, id int64) (*domain.Patient, error)
}

// ScheduleRepository интерфейс репозитория шаблонов расписания
type ScheduleRepository interface {
	GetByDoctorAndDay(ctx context.Context, doctorID int64, day domain.DayOfWeek) (*domain.ScheduleTemplate, error)
}

// CommitmentRepository интерфейс репозитория броней
type CommitmentRepository interface {
	Create(ctx context.Context, c *domain.Commitment) (*domain.Commitment, error)
}

// ConflictDetector интерфейс детектора конфликтов
type ConflictDetector interface {
	CheckExclusive(ctx context.Context, kind domain.SubjectKind, subjectID int64, start, end time.Time, excludeIDs ...int64) error
	CheckResource(ctx context.Context, resource *domain.Resource, start, end time.Time, needFreeUnit bool, excludeIDs ...int64) error
}

// CapacityService интерфейс сервиса емкости
type CapacityService interface {
	Lock(ctx context.Context, plan domain.LockPlan) (*capacity.Locked, error)
	Acquire(ctx context.Context, kind domain.SubjectKind, subjectID int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsRecorder интерфейс учета решений арбитра
type MetricsRecorder interface {
	RecordDecision(operation, outcome string)
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
