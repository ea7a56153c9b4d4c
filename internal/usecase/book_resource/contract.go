package book_resource

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
	"github.com/m04kA/SMC-ClinicBooking/internal/service/capacity"
)

// CommitmentRepository интерфейс репозитория броней
type CommitmentRepository interface {
	Create(ctx context.Context, c *domain.Commitment) (*domain.Commitment, error)
	GetByID(ctx context.Context, id int64) (*domain.Commitment, error)
}

// ConflictDetector интерфейс детектора конфликтов
type ConflictDetector interface {
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

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
