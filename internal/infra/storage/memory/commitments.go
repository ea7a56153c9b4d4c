package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
	commitmentRepo "github.com/m04kA/SMC-ClinicBooking/internal/infra/storage/commitment"
)

// CommitmentRepository брони в памяти
type CommitmentRepository struct {
	store *Store
}

// Commitments возвращает репозиторий броней
func (s *Store) Commitments() *CommitmentRepository {
	return &CommitmentRepository{store: s}
}

func (r *CommitmentRepository) Create(ctx context.Context, c *domain.Commitment) (*domain.Commitment, error) {
	var created domain.Commitment
	err := r.store.run(ctx, func() error {
		r.store.nextCommitmentID++
		now := time.Now().UTC()
		created = *c
		created.ID = r.store.nextCommitmentID
		created.CreatedAt = now
		created.UpdatedAt = now
		r.store.commitments[created.ID] = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *CommitmentRepository) GetByID(ctx context.Context, id int64) (*domain.Commitment, error) {
	var found domain.Commitment
	err := r.store.run(ctx, func() error {
		c, ok := r.store.commitments[id]
		if !ok {
			return commitmentRepo.ErrCommitmentNotFound
		}
		found = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *CommitmentRepository) ListActiveOverlapping(
	ctx context.Context,
	kind domain.SubjectKind,
	subjectID int64,
	start, end time.Time,
	excludeIDs ...int64,
) ([]*domain.Commitment, error) {
	excluded := make(map[int64]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	return r.collect(ctx, func(c *domain.Commitment) bool {
		return c.SubjectKind == kind &&
			c.SubjectID == subjectID &&
			c.IsActive() &&
			!excluded[c.ID] &&
			c.Overlaps(start, end)
	}, byStart)
}

func (r *CommitmentRepository) ListActiveByAppointment(ctx context.Context, appointmentID int64) ([]*domain.Commitment, error) {
	return r.collect(ctx, func(c *domain.Commitment) bool {
		return c.AppointmentID != nil && *c.AppointmentID == appointmentID && c.IsActive()
	}, byID)
}

func (r *CommitmentRepository) ListWithFilter(ctx context.Context, filter domain.CommitmentFilter) ([]*domain.Commitment, error) {
	return r.collect(ctx, func(c *domain.Commitment) bool {
		if filter.SubjectKind != nil && c.SubjectKind != *filter.SubjectKind {
			return false
		}
		if filter.SubjectID != nil && c.SubjectID != *filter.SubjectID {
			return false
		}
		if filter.PatientID != nil && (c.PatientID == nil || *c.PatientID != *filter.PatientID) {
			return false
		}
		if filter.AppointmentID != nil && (c.AppointmentID == nil || *c.AppointmentID != *filter.AppointmentID) {
			return false
		}
		if filter.From != nil && !c.EndAt.After(*filter.From) {
			return false
		}
		if filter.To != nil && !c.StartAt.Before(*filter.To) {
			return false
		}
		if filter.Status != nil {
			return c.Status == *filter.Status
		}
		return filter.IncludeInactive || c.IsActive()
	}, byStart)
}

func (r *CommitmentRepository) ListExpiredIDs(ctx context.Context, now time.Time, afterID int64, limit int) ([]int64, error) {
	expired, err := r.collect(ctx, func(c *domain.Commitment) bool {
		return c.ID > afterID && c.IsExpired(now)
	}, byID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, limit)
	for _, c := range expired {
		if len(ids) == limit {
			break
		}
		ids = append(ids, c.ID)
	}
	return ids, nil
}

func (r *CommitmentRepository) CountActiveBySubject(ctx context.Context, kind domain.SubjectKind, subjectID int64) (int, error) {
	active, err := r.collect(ctx, func(c *domain.Commitment) bool {
		return c.SubjectKind == kind && c.SubjectID == subjectID && c.IsActive()
	}, byID)
	if err != nil {
		return 0, err
	}
	return len(active), nil
}

func (r *CommitmentRepository) TransitionStatus(ctx context.Context, id int64, to domain.CommitmentStatus, at time.Time) (bool, error) {
	if !to.IsTerminal() {
		return false, fmt.Errorf("%w: TransitionStatus - status %q is not terminal", domain.ErrInvalidInput, to)
	}
	changed := false
	err := r.store.run(ctx, func() error {
		c, ok := r.store.commitments[id]
		if !ok || !c.IsActive() {
			return nil
		}
		stamp := at.UTC()
		c.Status = to
		c.UpdatedAt = stamp
		if to == domain.StatusCancelled {
			c.CancelledAt = &stamp
		} else {
			c.CompletedAt = &stamp
		}
		r.store.commitments[id] = c
		changed = true
		return nil
	})
	return changed, err
}

func (r *CommitmentRepository) Reschedule(ctx context.Context, id int64, start, end time.Time) error {
	return r.store.run(ctx, func() error {
		c, ok := r.store.commitments[id]
		if !ok || !c.IsActive() {
			return commitmentRepo.ErrCommitmentNotFound
		}
		c.StartAt = start
		c.EndAt = end
		c.UpdatedAt = time.Now().UTC()
		r.store.commitments[id] = c
		return nil
	})
}

func (r *CommitmentRepository) collect(
	ctx context.Context,
	match func(c *domain.Commitment) bool,
	less func(a, b *domain.Commitment) bool,
) ([]*domain.Commitment, error) {
	result := make([]*domain.Commitment, 0)
	err := r.store.run(ctx, func() error {
		for _, c := range r.store.commitments {
			c := c
			if match(&c) {
				result = append(result, &c)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(result, func(i, j int) bool { return less(result[i], result[j]) })
	return result, nil
}

func byID(a, b *domain.Commitment) bool {
	return a.ID < b.ID
}

func byStart(a, b *domain.Commitment) bool {
	if a.StartAt.Equal(b.StartAt) {
		return a.ID < b.ID
	}
	return a.StartAt.Before(b.StartAt)
}
