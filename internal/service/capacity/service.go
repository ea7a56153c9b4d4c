package capacity

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
	capacityRepo "github.com/m04kA/SMC-ClinicBooking/internal/infra/storage/capacity"
	subjectRepo "github.com/m04kA/SMC-ClinicBooking/internal/infra/storage/subject"
)

// Service единственная точка изменения емкости держателей
// Вызывается только внутри транзакции арбитра или реконсилера, после блокировки строки держателя
type Service struct {
	holderRepo     HolderRepository
	doctorRepo     DoctorRepository
	commitmentRepo CommitmentRepository
	logger         Logger
}

// NewService создает сервис емкости
func NewService(
	holderRepo HolderRepository,
	doctorRepo DoctorRepository,
	commitmentRepo CommitmentRepository,
	logger Logger,
) *Service {
	return &Service{
		holderRepo:     holderRepo,
		doctorRepo:     doctorRepo,
		commitmentRepo: commitmentRepo,
		logger:         logger,
	}
}

// Locked держатели, заблокированные транзакцией
type Locked struct {
	Doctor    *domain.Doctor
	Rooms     map[int64]*domain.Room
	Resources map[int64]*domain.Resource
}

// Lock блокирует держателей плана в каноническом порядке: врач, кабинеты, ресурсы по возрастанию id
// Отсутствующий держатель - ErrNotFound. Вне транзакции строки только читаются
func (s *Service) Lock(ctx context.Context, plan domain.LockPlan) (*Locked, error) {
	locked := &Locked{
		Rooms:     make(map[int64]*domain.Room, len(plan.RoomIDs)),
		Resources: make(map[int64]*domain.Resource, len(plan.ResourceIDs)),
	}

	if plan.DoctorID != nil {
		doctor, err := s.doctorRepo.GetDoctor(ctx, *plan.DoctorID)
		if err != nil {
			if errors.Is(err, subjectRepo.ErrDoctorNotFound) {
				return nil, fmt.Errorf("%w: doctor id=%d", domain.ErrNotFound, *plan.DoctorID)
			}
			s.logger.Error("Lock: failed to lock doctor id=%d: %v", *plan.DoctorID, err)
			return nil, fmt.Errorf("%w: lock doctor: %w", ErrInternal, err)
		}
		locked.Doctor = doctor
	}

	roomIDs, err := domain.SortedUniqueIDs(plan.RoomIDs)
	if err != nil {
		return nil, err
	}
	rooms, err := s.holderRepo.LockRooms(ctx, roomIDs)
	if err != nil {
		if errors.Is(err, capacityRepo.ErrRoomNotFound) {
			return nil, fmt.Errorf("%w: room: %v", domain.ErrNotFound, err)
		}
		s.logger.Error("Lock: failed to lock rooms %v: %v", roomIDs, err)
		return nil, fmt.Errorf("%w: lock rooms: %w", ErrInternal, err)
	}
	for _, room := range rooms {
		locked.Rooms[room.ID] = room
	}

	resourceIDs, err := domain.SortedUniqueIDs(plan.ResourceIDs)
	if err != nil {
		return nil, err
	}
	resources, err := s.holderRepo.LockResources(ctx, resourceIDs)
	if err != nil {
		if errors.Is(err, capacityRepo.ErrResourceNotFound) {
			return nil, fmt.Errorf("%w: resource: %v", domain.ErrNotFound, err)
		}
		s.logger.Error("Lock: failed to lock resources %v: %v", resourceIDs, err)
		return nil, fmt.Errorf("%w: lock resources: %w", ErrInternal, err)
	}
	for _, res := range resources {
		locked.Resources[res.ID] = res
	}

	return locked, nil
}

// Acquire занимает емкость под новую бронь: кабинет становится недоступным, у ресурса списывается единица
// Для врача емкость не меняется
func (s *Service) Acquire(ctx context.Context, kind domain.SubjectKind, subjectID int64) error {
	switch kind {
	case domain.SubjectDoctor:
		return nil

	case domain.SubjectRoom:
		if err := s.holderRepo.SetRoomAvailable(ctx, subjectID, false); err != nil {
			if errors.Is(err, capacityRepo.ErrRoomNotFound) {
				return fmt.Errorf("%w: room id=%d", domain.ErrNotFound, subjectID)
			}
			s.logger.Error("Acquire: failed to mark room id=%d unavailable: %v", subjectID, err)
			return fmt.Errorf("%w: mark room unavailable: %w", ErrInternal, err)
		}
		return nil

	case domain.SubjectResource:
		res, err := s.holderRepo.AdjustResourceQuantity(ctx, subjectID, -1)
		if err != nil {
			switch {
			case errors.Is(err, capacityRepo.ErrResourceNotFound):
				return fmt.Errorf("%w: resource id=%d", domain.ErrNotFound, subjectID)
			case errors.Is(err, capacityRepo.ErrQuantityOutOfRange):
				return fmt.Errorf("%w: resource id=%d has no free units", domain.ErrCapacityExceeded, subjectID)
			}
			s.logger.Error("Acquire: failed to decrement resource id=%d: %v", subjectID, err)
			return fmt.Errorf("%w: decrement resource: %w", ErrInternal, err)
		}
		s.logger.Info("Acquire: resource id=%d quantity now %d/%d", res.ID, res.Quantity, res.TotalQuantity)
		return nil

	default:
		return fmt.Errorf("%w: unknown subject kind %q", domain.ErrInvalidInput, kind)
	}
}

// Release возвращает емкость брони, которая только что перешла в терминальный статус
// Кабинет снова доступен, только если у него не осталось активных броней
func (s *Service) Release(ctx context.Context, kind domain.SubjectKind, subjectID int64) error {
	switch kind {
	case domain.SubjectDoctor:
		return nil

	case domain.SubjectRoom:
		active, err := s.commitmentRepo.CountActiveBySubject(ctx, domain.SubjectRoom, subjectID)
		if err != nil {
			s.logger.Error("Release: failed to count active bookings of room id=%d: %v", subjectID, err)
			return fmt.Errorf("%w: count room bookings: %w", ErrInternal, err)
		}
		if active > 0 {
			return nil
		}
		if err := s.holderRepo.SetRoomAvailable(ctx, subjectID, true); err != nil {
			s.logger.Error("Release: failed to mark room id=%d available: %v", subjectID, err)
			return fmt.Errorf("%w: mark room available: %w", ErrInternal, err)
		}
		return nil

	case domain.SubjectResource:
		res, err := s.holderRepo.AdjustResourceQuantity(ctx, subjectID, 1)
		if err != nil {
			s.logger.Error("Release: failed to increment resource id=%d: %v", subjectID, err)
			return fmt.Errorf("%w: increment resource: %w", ErrInternal, err)
		}
		s.logger.Info("Release: resource id=%d quantity now %d/%d", res.ID, res.Quantity, res.TotalQuantity)
		return nil

	default:
		return fmt.Errorf("%w: unknown subject kind %q", domain.ErrInvalidInput, kind)
	}
}
