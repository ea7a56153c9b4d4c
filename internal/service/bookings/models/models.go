package models

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
)

// Request модели

// ListBySubjectRequest запрос на получение броней врача, кабинета или ресурса
type ListBySubjectRequest struct {
	SubjectKind     string     `json:"subjectKind"`
	SubjectID       int64      `json:"subjectId"`
	From            *time.Time `json:"from,omitempty"`            // Начало периода (опционально)
	To              *time.Time `json:"to,omitempty"`              // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отмененные и завершенные
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBySubjectRequest) ToDomainFilter() (domain.CommitmentFilter, error) {
	kind, err := domain.ParseSubjectKind(r.SubjectKind)
	if err != nil {
		return domain.CommitmentFilter{}, err
	}
	filter := domain.CommitmentFilter{
		SubjectKind:     &kind,
		SubjectID:       &r.SubjectID,
		From:            r.From,
		To:              r.To,
		IncludeInactive: r.IncludeInactive,
	}

	if r.From != nil && r.To != nil && !r.To.After(*r.From) {
		return filter, fmt.Errorf("%w: 'to' must be after 'from'", domain.ErrInvalidRange)
	}

	// Явный статус подразумевает неактивные брони
	if r.Status != nil {
		status, err := domain.ParseCommitmentStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
		filter.IncludeInactive = true
	}
	return filter, nil
}

// Response модели

// BookingResponse ответ с данными брони
type BookingResponse struct {
	ID            int64  `json:"id"`
	SubjectKind   string `json:"subjectKind"`
	SubjectID     int64  `json:"subjectId"`
	PatientID     *int64 `json:"patientId,omitempty"`
	AppointmentID *int64 `json:"appointmentId,omitempty"`
	StartAt       string `json:"startAt"` // RFC 3339
	EndAt         string `json:"endAt"`
	Status        string `json:"status"`

	CancelledAt *string `json:"cancelledAt,omitempty"`
	CompletedAt *string `json:"completedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком броней
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// FromDomainCommitment конвертирует domain модель в DTO
// Время отдается в часовом поясе клиники
func FromDomainCommitment(c *domain.Commitment, loc *time.Location) *BookingResponse {
	if c == nil {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}

	resp := &BookingResponse{
		ID:            c.ID,
		SubjectKind:   string(c.SubjectKind),
		SubjectID:     c.SubjectID,
		PatientID:     c.PatientID,
		AppointmentID: c.AppointmentID,
		StartAt:       c.StartAt.In(loc).Format(time.RFC3339),
		EndAt:         c.EndAt.In(loc).Format(time.RFC3339),
		Status:        string(c.Status),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
	if c.CancelledAt != nil {
		cancelled := c.CancelledAt.In(loc).Format(time.RFC3339)
		resp.CancelledAt = &cancelled
	}
	if c.CompletedAt != nil {
		completed := c.CompletedAt.In(loc).Format(time.RFC3339)
		resp.CompletedAt = &completed
	}
	return resp
}

// FromDomainCommitmentList конвертирует список domain моделей в DTO
func FromDomainCommitmentList(commitments []*domain.Commitment, loc *time.Location) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(commitments)),
	}
	for _, c := range commitments {
		if item := FromDomainCommitment(c, loc); item != nil {
			resp.Bookings = append(resp.Bookings, *item)
		}
	}
	return resp
}
