package memory

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-ClinicBooking/internal/infra/storage/schedule"
)

// ScheduleRepository шаблоны расписания в памяти
type ScheduleRepository struct {
	store *Store
}

// Schedules возвращает репозиторий расписаний
func (s *Store) Schedules() *ScheduleRepository {
	return &ScheduleRepository{store: s}
}

func (r *ScheduleRepository) Create(ctx context.Context, t *domain.ScheduleTemplate) (*domain.ScheduleTemplate, error) {
	var created domain.ScheduleTemplate
	err := r.store.run(ctx, func() error {
		if r.findByDoctorAndDay(t.DoctorID, t.DayOfWeek, 0) != nil {
			return scheduleRepo.ErrScheduleAlreadyExists
		}
		r.store.nextScheduleID++
		now := time.Now().UTC()
		created = *t
		created.ID = r.store.nextScheduleID
		created.CreatedAt = now
		created.UpdatedAt = now
		r.store.schedules[created.ID] = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *ScheduleRepository) GetByID(ctx context.Context, id int64) (*domain.ScheduleTemplate, error) {
	var found domain.ScheduleTemplate
	err := r.store.run(ctx, func() error {
		t, ok := r.store.schedules[id]
		if !ok {
			return scheduleRepo.ErrScheduleNotFound
		}
		found = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *ScheduleRepository) GetByDoctorAndDay(ctx context.Context, doctorID int64, day domain.DayOfWeek) (*domain.ScheduleTemplate, error) {
	var found *domain.ScheduleTemplate
	err := r.store.run(ctx, func() error {
		found = r.findByDoctorAndDay(doctorID, day, 0)
		if found == nil {
			return scheduleRepo.ErrScheduleNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *ScheduleRepository) ListByDoctor(ctx context.Context, doctorID int64) ([]*domain.ScheduleTemplate, error) {
	templates := make([]*domain.ScheduleTemplate, 0)
	err := r.store.run(ctx, func() error {
		for _, t := range r.store.schedules {
			if t.DoctorID == doctorID {
				t := t
				templates = append(templates, &t)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(templates, func(i, j int) bool {
		return templates[i].DayOfWeek.Index() < templates[j].DayOfWeek.Index()
	})
	return templates, nil
}

func (r *ScheduleRepository) Update(ctx context.Context, t *domain.ScheduleTemplate) (*domain.ScheduleTemplate, error) {
	var updated domain.ScheduleTemplate
	err := r.store.run(ctx, func() error {
		existing, ok := r.store.schedules[t.ID]
		if !ok {
			return scheduleRepo.ErrScheduleNotFound
		}
		if r.findByDoctorAndDay(t.DoctorID, t.DayOfWeek, t.ID) != nil {
			return scheduleRepo.ErrScheduleAlreadyExists
		}
		updated = *t
		updated.CreatedAt = existing.CreatedAt
		updated.UpdatedAt = time.Now().UTC()
		r.store.schedules[t.ID] = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *ScheduleRepository) Delete(ctx context.Context, id int64) error {
	return r.store.run(ctx, func() error {
		if _, ok := r.store.schedules[id]; !ok {
			return scheduleRepo.ErrScheduleNotFound
		}
		delete(r.store.schedules, id)
		return nil
	})
}

func (r *ScheduleRepository) findByDoctorAndDay(doctorID int64, day domain.DayOfWeek, exceptID int64) *domain.ScheduleTemplate {
	for _, t := range r.store.schedules {
		if t.DoctorID == doctorID && t.DayOfWeek == day && t.ID != exceptID {
			t := t
			return &t
		}
	}
	return nil
}
