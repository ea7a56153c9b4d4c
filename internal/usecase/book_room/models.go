package book_room

import (
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
)

// Request модель запроса на бронь кабинета
type Request struct {
	RoomID        int64     // ID кабинета
	StartAt       time.Time // Начало брони
	EndAt         time.Time // Конец брони, строго позже начала
	AppointmentID *int64    // Родительский прием (опционально)
}

// Response модель ответа с созданной бронью
type Response struct {
	Booking *domain.Commitment
}
