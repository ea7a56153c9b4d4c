package domain

import (
	"fmt"
	"time"
)

// SubjectKind тип субъекта, на который оформляется бронь
type SubjectKind string

const (
	SubjectDoctor   SubjectKind = "doctor"
	SubjectRoom     SubjectKind = "room"
	SubjectResource SubjectKind = "resource"
)

// ParseSubjectKind разбирает тип субъекта из строки
func ParseSubjectKind(s string) (SubjectKind, error) {
	kind := SubjectKind(s)
	if err := kind.Validate(); err != nil {
		return "", err
	}
	return kind, nil
}

// Validate проверяет, что тип субъекта известен
func (k SubjectKind) Validate() error {
	switch k {
	case SubjectDoctor, SubjectRoom, SubjectResource:
		return nil
	default:
		return fmt.Errorf("%w: unknown subject kind %q", ErrInvalidInput, string(k))
	}
}

// CommitmentStatus represents the lifecycle status of a commitment
type CommitmentStatus string

const (
	StatusBooked    CommitmentStatus = "booked"
	StatusCompleted CommitmentStatus = "completed"
	StatusCancelled CommitmentStatus = "cancelled"
)

// ParseCommitmentStatus разбирает статус из строки
func ParseCommitmentStatus(s string) (CommitmentStatus, error) {
	switch status := CommitmentStatus(s); status {
	case StatusBooked, StatusCompleted, StatusCancelled:
		return status, nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidInput, s)
	}
}

// IsTerminal returns true for completed and cancelled statuses
func (s CommitmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Commitment represents a booked interval against a doctor, a room or a resource.
// Appointments are commitments on a doctor; room and resource bookings attached
// to an appointment carry its id in AppointmentID.
type Commitment struct {
	ID            int64
	SubjectKind   SubjectKind
	SubjectID     int64
	PatientID     *int64 // только для приемов врача
	AppointmentID *int64 // родительский прием для брони кабинета или ресурса
	StartAt       time.Time
	EndAt         time.Time
	Status        CommitmentStatus

	CancelledAt *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive returns true if the commitment still holds capacity
func (c *Commitment) IsActive() bool {
	return c.Status == StatusBooked
}

// IsAppointment returns true for doctor appointments
func (c *Commitment) IsAppointment() bool {
	return c.SubjectKind == SubjectDoctor
}

// Overlaps returns true if the commitment interval intersects [start, end)
func (c *Commitment) Overlaps(start, end time.Time) bool {
	return Overlaps(c.StartAt, c.EndAt, start, end)
}

// IsExpired returns true if an active commitment has already ended at now
func (c *Commitment) IsExpired(now time.Time) bool {
	return c.IsActive() && !c.EndAt.After(now)
}

// Overlaps проверяет пересечение полуоткрытых интервалов [aStart, aEnd) и [bStart, bEnd)
// Интервалы, касающиеся границами, не пересекаются
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ValidateInterval проверяет, что конец строго позже начала
func ValidateInterval(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidRange)
	}
	if !end.After(start) {
		return fmt.Errorf("%w: end %s is not after start %s", ErrInvalidRange,
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return nil
}

// CommitmentFilter фильтр для выборки броней
type CommitmentFilter struct {
	SubjectKind     *SubjectKind
	SubjectID       *int64
	PatientID       *int64
	AppointmentID   *int64
	From            *time.Time        // брони, заканчивающиеся после From
	To              *time.Time        // брони, начинающиеся до To
	Status          *CommitmentStatus // фильтр по статусу
	IncludeInactive bool              // включать отмененные и завершенные
}
