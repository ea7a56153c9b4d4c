package cancel_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
	"github.com/m04kA/SMC-ClinicBooking/internal/service/capacity"
)

// CommitmentRepository интерфейс репозитория броней
type CommitmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Commitment, error)
	ListActiveByAppointment(ctx context.Context, appointmentID int64) ([]*domain.Commitment, error)
	TransitionStatus(ctx context.Context, id int64, to domain.CommitmentStatus, at time.Time) (bool, error)
}

// CapacityService интерфейс сервиса емкости
type CapacityService interface {
	Lock(ctx context.Context, plan domain.LockPlan) (*capacity.Locked, error)
	Release(ctx context.Context, kind domain.SubjectKind, subjectID int64) error
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
