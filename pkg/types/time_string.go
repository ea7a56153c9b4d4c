package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

const timeStringLayout = "15:04"

// ErrInvalidTimeString возвращается, когда строка не соответствует формату HH:MM
var ErrInvalidTimeString = errors.New("invalid time string format")

// TimeString время суток в формате "HH:MM" без привязки к дате
type TimeString string

// NewTimeString создает TimeString из time.Time (секунды отбрасываются)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeStringLayout))
}

// NewTimeStringFromString парсит строку "HH:MM" (также принимает "HH:MM:SS")
func NewTimeStringFromString(s string) (TimeString, error) {
	t, err := parseClock(s)
	if err != nil {
		return "", err
	}
	return NewTimeString(t), nil
}

func parseClock(s string) (time.Time, error) {
	if t, err := time.Parse(timeStringLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("15:04:05", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
}

// String возвращает строковое представление
func (ts TimeString) String() string {
	return string(ts)
}

// IsZero true, если время не задано
func (ts TimeString) IsZero() bool {
	return ts == ""
}

// Validate проверяет формат
func (ts TimeString) Validate() error {
	_, err := parseClock(string(ts))
	return err
}

// Minutes возвращает количество минут от начала суток
func (ts TimeString) Minutes() (int, error) {
	t, err := parseClock(string(ts))
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// AddMinutes прибавляет минуты. Переход через полночь считается ошибкой
func (ts TimeString) AddMinutes(minutes int) (TimeString, error) {
	current, err := ts.Minutes()
	if err != nil {
		return "", err
	}
	total := current + minutes
	if total < 0 || total >= 24*60 {
		return "", fmt.Errorf("%w: %s%+d minutes leaves the day", ErrInvalidTimeString, ts, minutes)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", total/60, total%60)), nil
}

// IsBefore сравнивает два значения времени
func (ts TimeString) IsBefore(other TimeString) bool {
	a, errA := ts.Minutes()
	b, errB := other.Minutes()
	if errA != nil || errB != nil {
		return false
	}
	return a < b
}

// IsAfter сравнивает два значения времени
func (ts TimeString) IsAfter(other TimeString) bool {
	return other.IsBefore(ts)
}

// On возвращает момент с этим временем на часах в указанную дату и часовой пояс
// В день перевода часов полночь + N минут дала бы другое время на часах
func (ts TimeString) On(date time.Time, loc *time.Location) (time.Time, error) {
	minutes, err := ts.Minutes()
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, loc), nil
}

// Value реализует driver.Valuer
func (ts TimeString) Value() (driver.Value, error) {
	if ts.IsZero() {
		return nil, nil
	}
	return string(ts), nil
}

// Scan реализует sql.Scanner (колонки TIME приходят строкой или time.Time)
func (ts *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*ts = ""
		return nil
	case time.Time:
		*ts = NewTimeString(v)
		return nil
	case []byte:
		parsed, err := NewTimeStringFromString(string(v))
		if err != nil {
			return err
		}
		*ts = parsed
		return nil
	case string:
		parsed, err := NewTimeStringFromString(v)
		if err != nil {
			return err
		}
		*ts = parsed
		return nil
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidTimeString, src)
	}
}
