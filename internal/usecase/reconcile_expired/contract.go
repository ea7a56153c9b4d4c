package reconcile_expired

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
	"github.com/m04kA/SMC-ClinicBooking/internal/service/capacity"
)

// CommitmentRepository интерфейс репозитория броней
type CommitmentRepository interface {
	ListExpiredIDs(ctx context.Context, now time.Time, afterID int64, limit int) ([]int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Commitment, error)
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

// MetricsRecorder интерфейс учета проходов реконсилера
type MetricsRecorder interface {
	RecordReconcile(reclaimed, failed int, finishedAtUnix float64)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
