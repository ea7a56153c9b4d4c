package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
)

// Request модель запроса на создание приема
type Request struct {
	DoctorID    int64     // ID врача
	PatientID   int64     // ID пациента
	StartAt     time.Time // Начало приема, должно совпадать со слотом сетки
	RoomID      *int64    // Кабинет (опционально)
	ResourceIDs []int64   // Ресурсы (опционально, без повторов)
}

// Response модель ответа с созданным приемом
type Response struct {
	Appointment      *domain.Commitment   // Прием врача
	RoomBooking      *domain.Commitment   // Бронь кабинета, если запрошен
	ResourceBookings []*domain.Commitment // Брони ресурсов по возрастанию id ресурса
}
