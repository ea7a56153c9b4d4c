package capacity

import (
	"context"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
)

// HolderRepository интерфейс репозитория кабинетов и ресурсов
type HolderRepository interface {
	LockRooms(ctx context.Context, ids []int64) ([]*domain.Room, error)
	LockResources(ctx context.Context, ids []int64) ([]*domain.Resource, error)
	SetRoomAvailable(ctx context.Context, id int64, available bool) error
	AdjustResourceQuantity(ctx context.Context, id int64, delta int) (*domain.Resource, error)
}

// DoctorRepository интерфейс чтения врача; внутри транзакции строка блокируется
type DoctorRepository interface {
	GetDoctor(ctx context.Context, id int64) (*domain.Doctor, error)
}

// CommitmentRepository интерфейс репозитория броней
type CommitmentRepository interface {
	CountActiveBySubject(ctx context.Context, kind domain.SubjectKind, subjectID int64) (int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
