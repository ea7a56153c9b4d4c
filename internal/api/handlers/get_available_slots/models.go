package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-ClinicBooking/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	DoctorID            int64           `json:"doctorId"`
	Date                string          `json:"date"`
	DayOfWeek           string          `json:"dayOfWeek"`
	SlotDurationMinutes int             `json:"slotDurationMinutes"`
	Slots               []AvailableSlot `json:"slots"`
}

// AvailableSlot свободный слот в часовом поясе клиники
type AvailableSlot struct {
	StartAt         string `json:"startAt"`
	EndAt           string `json:"endAt"`
	DurationMinutes int    `json:"durationMinutes"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response, loc *time.Location) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i := range resp.Slots {
		slot := resp.Slots[i]
		slots[i] = AvailableSlot{
			StartAt:         slot.StartAt.In(loc).Format(time.RFC3339),
			EndAt:           slot.EndAt.In(loc).Format(time.RFC3339),
			DurationMinutes: slot.DurationMinutes(),
		}
	}

	return &AvailableSlotsResponse{
		DoctorID:            resp.DoctorID,
		Date:                resp.Date.Format(domain.DateFormat),
		DayOfWeek:           string(resp.DayOfWeek),
		SlotDurationMinutes: resp.SlotDurationMinutes,
		Slots:               slots,
	}
}
