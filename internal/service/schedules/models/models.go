package models

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
	"github.com/m04kA/SMC-ClinicBooking/pkg/types"
)

// Request модели

// CreateScheduleRequest запрос на создание шаблона расписания
type CreateScheduleRequest struct {
	DoctorID            int64  `json:"doctorId" validate:"required,gt=0"`
	DayOfWeek           string `json:"dayOfWeek" validate:"required"`
	StartTime           string `json:"startTime" validate:"required"` // "09:00"
	EndTime             string `json:"endTime" validate:"required"`   // "17:00"
	SlotDurationMinutes int    `json:"slotDurationMinutes" validate:"required,min=15,max=120"`
}

// UpdateScheduleRequest запрос на обновление шаблона
// Все поля опциональны - обновляются только переданные значения
type UpdateScheduleRequest struct {
	DayOfWeek           *string `json:"dayOfWeek,omitempty"`
	StartTime           *string `json:"startTime,omitempty"`
	EndTime             *string `json:"endTime,omitempty"`
	SlotDurationMinutes *int    `json:"slotDurationMinutes,omitempty" validate:"omitempty,min=15,max=120"`
}

// ToDomainSchedule конвертирует запрос в domain модель
func (r *CreateScheduleRequest) ToDomainSchedule() (*domain.ScheduleTemplate, error) {
	day, err := domain.ParseDayOfWeek(r.DayOfWeek)
	if err != nil {
		return nil, err
	}
	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: startTime: %v", domain.ErrInvalidRange, err)
	}
	end, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: endTime: %v", domain.ErrInvalidRange, err)
	}
	return &domain.ScheduleTemplate{
		DoctorID:            r.DoctorID,
		DayOfWeek:           day,
		StartTime:           start,
		EndTime:             end,
		SlotDurationMinutes: r.SlotDurationMinutes,
	}, nil
}

// ApplyToSchedule применяет переданные поля к шаблону
func (r *UpdateScheduleRequest) ApplyToSchedule(t *domain.ScheduleTemplate) error {
	if r.DayOfWeek != nil {
		day, err := domain.ParseDayOfWeek(*r.DayOfWeek)
		if err != nil {
			return err
		}
		t.DayOfWeek = day
	}
	if r.StartTime != nil {
		start, err := types.NewTimeStringFromString(*r.StartTime)
		if err != nil {
			return fmt.Errorf("%w: startTime: %v", domain.ErrInvalidRange, err)
		}
		t.StartTime = start
	}
	if r.EndTime != nil {
		end, err := types.NewTimeStringFromString(*r.EndTime)
		if err != nil {
			return fmt.Errorf("%w: endTime: %v", domain.ErrInvalidRange, err)
		}
		t.EndTime = end
	}
	if r.SlotDurationMinutes != nil {
		t.SlotDurationMinutes = *r.SlotDurationMinutes
	}
	return nil
}

// Response модели

// ScheduleResponse ответ с данными шаблона расписания
type ScheduleResponse struct {
	ID                  int64     `json:"id"`
	DoctorID            int64     `json:"doctorId"`
	DayOfWeek           string    `json:"dayOfWeek"`
	StartTime           string    `json:"startTime"`
	EndTime             string    `json:"endTime"`
	SlotDurationMinutes int       `json:"slotDurationMinutes"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// ScheduleListResponse ответ со списком шаблонов
type ScheduleListResponse struct {
	Schedules []ScheduleResponse `json:"schedules"`
}

// FromDomainSchedule конвертирует domain модель в DTO
func FromDomainSchedule(t *domain.ScheduleTemplate) *ScheduleResponse {
	if t == nil {
		return nil
	}
	return &ScheduleResponse{
		ID:                  t.ID,
		DoctorID:            t.DoctorID,
		DayOfWeek:           string(t.DayOfWeek),
		StartTime:           t.StartTime.String(),
		EndTime:             t.EndTime.String(),
		SlotDurationMinutes: t.SlotDurationMinutes,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}
}

// FromDomainScheduleList конвертирует список domain моделей в DTO
func FromDomainScheduleList(templates []*domain.ScheduleTemplate) *ScheduleListResponse {
	result := &ScheduleListResponse{Schedules: make([]ScheduleResponse, 0, len(templates))}
	for _, t := range templates {
		result.Schedules = append(result.Schedules, *FromDomainSchedule(t))
	}
	return result
}
