package check_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
)

// SubjectRepository интерфейс чтения врачей
type SubjectRepository interface {
	GetDoctor(ctx context.Context, id int64) (*domain.Doctor, error)
}

// HolderRepository интерфейс чтения кабинетов и ресурсов
type HolderRepository interface {
	GetRoom(ctx context.Context, id int64) (*domain.Room, error)
	GetResource(ctx context.Context, id int64) (*domain.Resource, error)
}

// ConflictDetector интерфейс детектора конфликтов
type ConflictDetector interface {
	CheckExclusive(ctx context.Context, kind domain.SubjectKind, subjectID int64, start, end time.Time, excludeIDs ...int64) error
	CheckResource(ctx context.Context, resource *domain.Resource, start, end time.Time, needFreeUnit bool, excludeIDs ...int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
