package book_resource

import (
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
)

// Request модель запроса на бронь единицы ресурса
type Request struct {
	ResourceID    int64     // ID ресурса
	StartAt       time.Time // Начало брони
	EndAt         time.Time // Конец брони, строго позже начала
	AppointmentID *int64    // Родительский прием (опционально)
}

// Response модель ответа с созданной бронью
type Response struct {
	Booking           *domain.Commitment
	RemainingQuantity int // Свободных единиц после выдачи
}
