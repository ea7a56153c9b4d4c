package memory

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
)

// DefaultLockTimeout ожидание блокировки хранилища по умолчанию
const DefaultLockTimeout = 2 * time.Second

type heldKey struct{}

// Store хранилище в памяти с теми же гарантиями, что и PostgreSQL:
// одна сериализуемая транзакция за раз, ограниченное ожидание блокировки (ErrBusy),
// откат всех изменений при ошибке
type Store struct {
	sem         chan struct{}
	lockTimeout time.Duration

	doctors     map[int64]domain.Doctor
	patients    map[int64]domain.Patient
	rooms       map[int64]domain.Room
	resources   map[int64]domain.Resource
	schedules   map[int64]domain.ScheduleTemplate
	commitments map[int64]domain.Commitment

	nextScheduleID   int64
	nextCommitmentID int64
}

// Option настройка хранилища
type Option func(*Store)

// WithLockTimeout задает ожидание блокировки
func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.lockTimeout = d
	}
}

// NewStore создает пустое хранилище
func NewStore(opts ...Option) *Store {
	s := &Store{
		sem:         make(chan struct{}, 1),
		lockTimeout: DefaultLockTimeout,
		doctors:     make(map[int64]domain.Doctor),
		patients:    make(map[int64]domain.Patient),
		rooms:       make(map[int64]domain.Room),
		resources:   make(map[int64]domain.Resource),
		schedules:   make(map[int64]domain.ScheduleTemplate),
		commitments: make(map[int64]domain.Commitment),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DoSerializable выполняет fn под блокировкой хранилища; при ошибке изменения откатываются
func (s *Store) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if s.held(ctx) {
		return fn(ctx)
	}
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	snap := s.snapshot()
	defer func() {
		if p := recover(); p != nil {
			s.restore(snap)
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, heldKey{}, s)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *Store) held(ctx context.Context) bool {
	owner, ok := ctx.Value(heldKey{}).(*Store)
	return ok && owner == s
}

func (s *Store) acquire(ctx context.Context) error {
	timer := time.NewTimer(s.lockTimeout)
	defer timer.Stop()

	select {
	case s.sem <- struct{}{}:
		return nil
	case <-timer.C:
		return domain.ErrBusy
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release() {
	<-s.sem
}

// run выполняет одиночную операцию: под уже взятой блокировкой или захватывая её
func (s *Store) run(ctx context.Context, fn func() error) error {
	if s.held(ctx) {
		return fn()
	}
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()
	return fn()
}

type snapshot struct {
	doctors          map[int64]domain.Doctor
	patients         map[int64]domain.Patient
	rooms            map[int64]domain.Room
	resources        map[int64]domain.Resource
	schedules        map[int64]domain.ScheduleTemplate
	commitments      map[int64]domain.Commitment
	nextScheduleID   int64
	nextCommitmentID int64
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		doctors:          cloneMap(s.doctors),
		patients:         cloneMap(s.patients),
		rooms:            cloneMap(s.rooms),
		resources:        cloneMap(s.resources),
		schedules:        cloneMap(s.schedules),
		commitments:      cloneMap(s.commitments),
		nextScheduleID:   s.nextScheduleID,
		nextCommitmentID: s.nextCommitmentID,
	}
}

func (s *Store) restore(snap snapshot) {
	s.doctors = snap.doctors
	s.patients = snap.patients
	s.rooms = snap.rooms
	s.resources = snap.resources
	s.schedules = snap.schedules
	s.commitments = snap.commitments
	s.nextScheduleID = snap.nextScheduleID
	s.nextCommitmentID = snap.nextCommitmentID
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// PutDoctor добавляет или заменяет врача
func (s *Store) PutDoctor(ctx context.Context, d domain.Doctor) error {
	return s.run(ctx, func() error {
		s.doctors[d.ID] = d
		return nil
	})
}

// PutPatient добавляет или заменяет пациента
func (s *Store) PutPatient(ctx context.Context, p domain.Patient) error {
	return s.run(ctx, func() error {
		s.patients[p.ID] = p
		return nil
	})
}

// PutRoom добавляет или заменяет кабинет
func (s *Store) PutRoom(ctx context.Context, r domain.Room) error {
	return s.run(ctx, func() error {
		s.rooms[r.ID] = r
		return nil
	})
}

// PutResource добавляет или заменяет ресурс
func (s *Store) PutResource(ctx context.Context, r domain.Resource) error {
	return s.run(ctx, func() error {
		s.resources[r.ID] = r
		return nil
	})
}
