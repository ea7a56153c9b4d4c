package bookings

import (
	"context"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
)

// CommitmentRepository интерфейс чтения броней
type CommitmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Commitment, error)
	ListWithFilter(ctx context.Context, filter domain.CommitmentFilter) ([]*domain.Commitment, error)
}

// SubjectRepository интерфейс чтения врачей и пациентов
type SubjectRepository interface {
	GetDoctor(ctx context.Context, id int64) (*domain.Doctor, error)
	GetPatient(ctx context.Context, id int64) (*domain.Patient, error)
}

// HolderRepository интерфейс чтения кабинетов и ресурсов
type HolderRepository interface {
	GetRoom(ctx context.Context, id int64) (*domain.Room, error)
	GetResource(ctx context.Context, id int64) (*domain.Resource, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
