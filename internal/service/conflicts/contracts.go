package conflicts

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
)

// CommitmentRepository интерфейс репозитория броней
type CommitmentRepository interface {
	ListActiveOverlapping(ctx context.Context, kind domain.SubjectKind, subjectID int64, start, end time.Time, excludeIDs ...int64) ([]*domain.Commitment, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
