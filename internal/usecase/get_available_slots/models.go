package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	DoctorID int64     // ID врача
	Date     time.Time // Дата (учитываются только год, месяц и день)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	DoctorID            int64                  // ID врача
	Date                time.Time              // Дата, на которую запрашивались слоты
	DayOfWeek           domain.DayOfWeek       // День недели шаблона
	SlotDurationMinutes int                    // Длительность слота
	Slots               []domain.AvailableSlot // Свободные слоты по возрастанию
}
