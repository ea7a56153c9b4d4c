package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ClinicBooking/pkg/types"
)

// DayOfWeek день недели шаблона расписания
type DayOfWeek string

const (
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
	Saturday  DayOfWeek = "SATURDAY"
	Sunday    DayOfWeek = "SUNDAY"
)

// Week дни недели в порядке сортировки
var Week = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdays = map[time.Weekday]DayOfWeek{
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
	time.Sunday:    Sunday,
}

// DayOfWeekOf возвращает день недели даты
func DayOfWeekOf(date time.Time) DayOfWeek {
	return weekdays[date.Weekday()]
}

// ParseDayOfWeek разбирает день недели без учета регистра
func ParseDayOfWeek(s string) (DayOfWeek, error) {
	day := DayOfWeek(strings.ToUpper(strings.TrimSpace(s)))
	if day.Index() < 0 {
		return "", fmt.Errorf("%w: unknown day of week %q", ErrInvalidInput, s)
	}
	return day, nil
}

// Index порядковый номер дня (MONDAY = 0), -1 для неизвестного значения
func (d DayOfWeek) Index() int {
	for i, day := range Week {
		if day == d {
			return i
		}
	}
	return -1
}

// ScheduleTemplate represents a doctor's availability window for one weekday
type ScheduleTemplate struct {
	ID                  int64
	DoctorID            int64
	DayOfWeek           DayOfWeek
	StartTime           types.TimeString
	EndTime             types.TimeString
	SlotDurationMinutes int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Validate проверяет инварианты шаблона: start < end, длительность слота 15..120 минут
func (t *ScheduleTemplate) Validate() error {
	if t.DayOfWeek.Index() < 0 {
		return fmt.Errorf("%w: unknown day of week %q", ErrInvalidInput, string(t.DayOfWeek))
	}
	if err := t.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: start time: %v", ErrInvalidRange, err)
	}
	if err := t.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: end time: %v", ErrInvalidRange, err)
	}
	if !t.StartTime.IsBefore(t.EndTime) {
		return fmt.Errorf("%w: start %s must be before end %s", ErrInvalidRange, t.StartTime, t.EndTime)
	}
	if t.SlotDurationMinutes < MinSlotDurationMinutes || t.SlotDurationMinutes > MaxSlotDurationMinutes {
		return fmt.Errorf("%w: slot duration must be between %d and %d minutes",
			ErrInvalidRange, MinSlotDurationMinutes, MaxSlotDurationMinutes)
	}
	return nil
}

// SlotDuration длительность одного слота
func (t *ScheduleTemplate) SlotDuration() time.Duration {
	return time.Duration(t.SlotDurationMinutes) * time.Minute
}

// Window возвращает границы рабочего окна в указанную дату
func (t *ScheduleTemplate) Window(date time.Time, loc *time.Location) (time.Time, time.Time, error) {
	start, err := t.StartTime.On(date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := t.EndTime.On(date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// Grid генерирует начала слотов по часам шаблона: start, start+d, ... пока slot+d <= end
// Неполный хвост окна слотом не становится
func (t *ScheduleTemplate) Grid(date time.Time, loc *time.Location) ([]time.Time, error) {
	if t.SlotDurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: slot duration must be positive", ErrInvalidRange)
	}
	if err := t.StartTime.Validate(); err != nil {
		return nil, fmt.Errorf("%w: start time: %v", ErrInvalidRange, err)
	}
	if err := t.EndTime.Validate(); err != nil {
		return nil, fmt.Errorf("%w: end time: %v", ErrInvalidRange, err)
	}

	slots := make([]time.Time, 0)
	current := t.StartTime
	for current.IsBefore(t.EndTime) {
		slotEnd, err := current.AddMinutes(t.SlotDurationMinutes)
		if err != nil || slotEnd.IsAfter(t.EndTime) {
			// Слот через полночь тоже не помещается в окно
			break
		}

		slot, err := current.On(date, loc)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
		current = slotEnd
	}
	return slots, nil
}

// IsAligned проверяет, что момент совпадает с одним из слотов сетки своего дня
func (t *ScheduleTemplate) IsAligned(at time.Time, loc *time.Location) (bool, error) {
	local := at.In(loc)
	grid, err := t.Grid(local, loc)
	if err != nil {
		return false, err
	}
	for _, slot := range grid {
		if slot.Equal(local) {
			return true, nil
		}
	}
	return false, nil
}

// SlotAt возвращает интервал приема [at, at+slot), если at лежит на сетке и строго позже now
// Иначе ErrMisalignedSlot или ErrSlotInPast
func (t *ScheduleTemplate) SlotAt(at, now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	aligned, err := t.IsAligned(at, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !aligned {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s is not on the %d-minute grid %s-%s",
			ErrMisalignedSlot, at.In(loc).Format(TimeFormat), t.SlotDurationMinutes, t.StartTime, t.EndTime)
	}
	if !at.After(now) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s", ErrSlotInPast, at.Format(time.RFC3339))
	}
	return at, at.Add(t.SlotDuration()), nil
}
