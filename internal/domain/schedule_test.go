package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mondayTemplate() *ScheduleTemplate {
	return &ScheduleTemplate{
		ID:                  1,
		DoctorID:            7,
		DayOfWeek:           Monday,
		StartTime:           "09:00",
		EndTime:             "12:00",
		SlotDurationMinutes: 30,
	}
}

func TestScheduleTemplate_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(t *ScheduleTemplate)
		wantErr error
	}{
		{name: "valid", mutate: func(*ScheduleTemplate) {}},
		{name: "start equals end", mutate: func(t *ScheduleTemplate) { t.EndTime = "09:00" }, wantErr: ErrInvalidRange},
		{name: "start after end", mutate: func(t *ScheduleTemplate) { t.StartTime = "13:00" }, wantErr: ErrInvalidRange},
		{name: "slot too short", mutate: func(t *ScheduleTemplate) { t.SlotDurationMinutes = 10 }, wantErr: ErrInvalidRange},
		{name: "slot too long", mutate: func(t *ScheduleTemplate) { t.SlotDurationMinutes = 121 }, wantErr: ErrInvalidRange},
		{name: "bad clock", mutate: func(t *ScheduleTemplate) { t.EndTime = "24:30" }, wantErr: ErrInvalidRange},
		{name: "unknown day", mutate: func(t *ScheduleTemplate) { t.DayOfWeek = "FUNDAY" }, wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := mondayTemplate()
			tt.mutate(tpl)
			err := tpl.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestScheduleTemplate_Grid(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	tests := []struct {
		name string
		date time.Time
		loc  *time.Location
	}{
		{name: "utc", date: time.Date(2030, time.March, 4, 0, 0, 0, 0, time.UTC), loc: time.UTC},
		// Часы переводятся вперед в 02:00
		{name: "spring forward", date: time.Date(2026, time.March, 29, 0, 0, 0, 0, berlin), loc: berlin},
		// Часы переводятся назад в 03:00
		{name: "fall back", date: time.Date(2026, time.October, 25, 0, 0, 0, 0, berlin), loc: berlin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := mondayTemplate()
			tpl.DayOfWeek = DayOfWeekOf(tt.date)
			y, m, d := tt.date.Date()

			grid, err := tpl.Grid(tt.date, tt.loc)
			require.NoError(t, err)
			require.Len(t, grid, 6)
			assert.True(t, grid[0].Equal(time.Date(y, m, d, 9, 0, 0, 0, tt.loc)))
			assert.True(t, grid[5].Equal(time.Date(y, m, d, 11, 30, 0, 0, tt.loc)))

			aligned, err := tpl.IsAligned(time.Date(y, m, d, 9, 0, 0, 0, tt.loc), tt.loc)
			require.NoError(t, err)
			assert.True(t, aligned)

			aligned, err = tpl.IsAligned(time.Date(y, m, d, 12, 0, 0, 0, tt.loc), tt.loc)
			require.NoError(t, err)
			assert.False(t, aligned)
		})
	}
}

func TestScheduleTemplate_Grid_DropsPartialTail(t *testing.T) {
	tpl := mondayTemplate()
	tpl.EndTime = "10:45"
	monday := time.Date(2030, time.March, 4, 0, 0, 0, 0, time.UTC)

	grid, err := tpl.Grid(monday, time.UTC)
	require.NoError(t, err)
	require.Len(t, grid, 3, "09:00, 09:30, 10:00; 10:30-11:00 does not fit")
	assert.Equal(t, 10, grid[2].Hour())
}

func TestScheduleTemplate_SlotAt(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)
	now := time.Date(2030, time.March, 1, 12, 0, 0, 0, loc)
	tpl := mondayTemplate()

	t.Run("aligned slot in the future", func(t *testing.T) {
		at := time.Date(2030, time.March, 4, 9, 30, 0, 0, loc)
		start, end, err := tpl.SlotAt(at, now, loc)
		require.NoError(t, err)
		assert.True(t, start.Equal(at))
		assert.Equal(t, 30*time.Minute, end.Sub(start))
	})

	t.Run("same instant in another zone is aligned", func(t *testing.T) {
		at := time.Date(2030, time.March, 4, 6, 30, 0, 0, time.UTC) // 09:30 MSK
		_, _, err := tpl.SlotAt(at, now, loc)
		assert.NoError(t, err)
	})

	t.Run("between grid points", func(t *testing.T) {
		at := time.Date(2030, time.March, 4, 9, 15, 0, 0, loc)
		_, _, err := tpl.SlotAt(at, now, loc)
		assert.ErrorIs(t, err, ErrMisalignedSlot)
		assert.NotErrorIs(t, err, ErrSlotInPast)
	})

	t.Run("last partial slot", func(t *testing.T) {
		at := time.Date(2030, time.March, 4, 12, 0, 0, 0, loc)
		_, _, err := tpl.SlotAt(at, now, loc)
		assert.ErrorIs(t, err, ErrMisalignedSlot)
	})

	t.Run("slot in the past", func(t *testing.T) {
		at := time.Date(2030, time.March, 4, 9, 0, 0, 0, loc)
		_, _, err := tpl.SlotAt(at, at, loc)
		assert.ErrorIs(t, err, ErrSlotInPast)
		assert.ErrorIs(t, err, ErrMisalignedSlot)
	})
}

func TestDayOfWeek(t *testing.T) {
	assert.Equal(t, Monday, DayOfWeekOf(time.Date(2030, time.March, 4, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, Sunday, DayOfWeekOf(time.Date(2030, time.March, 10, 0, 0, 0, 0, time.UTC)))

	day, err := ParseDayOfWeek(" friday ")
	require.NoError(t, err)
	assert.Equal(t, Friday, day)

	_, err = ParseDayOfWeek("someday")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
