package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
)

// generateSlots строит свободные слоты врача на дату
// Шаг 1: сетка шаблона start, start+d, ... пока slot+d <= end
// Шаг 2: убираем слоты, пересекающиеся с активными приемами врача
// Шаг 3: оставляем только слоты строго после now
func generateSlots(
	template *domain.ScheduleTemplate,
	date time.Time,
	loc *time.Location,
	now time.Time,
	busy []*domain.Commitment,
) ([]domain.AvailableSlot, error) {
	grid, err := template.Grid(date, loc)
	if err != nil {
		return nil, err
	}

	step := template.SlotDuration()
	slots := make([]domain.AvailableSlot, 0, len(grid))
	for _, start := range grid {
		end := start.Add(step)
		if !start.After(now) {
			continue
		}
		if overlapsAny(start, end, busy) {
			continue
		}
		slots = append(slots, domain.AvailableSlot{StartAt: start, EndAt: end})
	}
	return slots, nil
}

// overlapsAny проверяет пересечение [start, end) хотя бы с одной бронью
// Брони, касающиеся слота границей, пересечением не считаются
//
// Примеры для слота 11:30-12:00:
// - прием 11:20-11:40 → пересечение
// - прием 11:00-11:30 → нет (граничат)
// - прием 12:00-12:30 → нет (граничат)
func overlapsAny(start, end time.Time, busy []*domain.Commitment) bool {
	for _, c := range busy {
		if c.IsActive() && c.Overlaps(start, end) {
			return true
		}
	}
	return false
}
