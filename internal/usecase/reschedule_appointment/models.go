package reschedule_appointment

import (
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
)

// Request модель запроса на перенос приема
type Request struct {
	AppointmentID int64     // ID приема
	StartAt       time.Time // Новое начало, должно совпадать со слотом сетки
}

// Response модель ответа с перенесенным приемом
type Response struct {
	Appointment *domain.Commitment
	Children    []*domain.Commitment // Перенесенные брони кабинета и ресурсов
}
