package domain

import "time"

// AvailableSlot represents a free, grid-aligned appointment slot
type AvailableSlot struct {
	StartAt time.Time
	EndAt   time.Time
}

// DurationMinutes returns the slot length in minutes
func (s *AvailableSlot) DurationMinutes() int {
	return int(s.EndAt.Sub(s.StartAt) / time.Minute)
}
