package book_room

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
	commitmentRepo "github.com/m04kA/SMC-ClinicBooking/internal/infra/storage/commitment"
	"github.com/m04kA/SMC-ClinicBooking/pkg/ptr"
)

const operation = "book_room"

// UseCase use case для брони кабинета на произвольный интервал
type UseCase struct {
	commitmentRepo CommitmentRepository
	detector       ConflictDetector
	capacity       CapacityService
	txManager      TransactionManager
	metrics        MetricsRecorder
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	commitmentRepo CommitmentRepository,
	detector ConflictDetector,
	capacity CapacityService,
	txManager TransactionManager,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		commitmentRepo: commitmentRepo,
		detector:       detector,
		capacity:       capacity,
		txManager:      txManager,
		metrics:        metrics,
		logger:         logger,
	}
}

// Execute выполняет use case брони кабинета
// Сетка слотов к кабинетам не применяется
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	defer func() {
		if uc.metrics != nil {
			uc.metrics.RecordDecision(operation, domain.ErrorCode(err))
		}
	}()

	uc.logger.Info("BookRoom: room=%d, %s - %s, appointment=%v",
		req.RoomID, req.StartAt.Format(time.RFC3339), req.EndAt.Format(time.RFC3339), ptr.Value(req.AppointmentID))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookRoom: validation failed: %v", err)
		return nil, err
	}

	var created *domain.Commitment

	// 2. Проверка и запись в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Родительский прием блокируется раньше держателя
		var parent *domain.Commitment
		if req.AppointmentID != nil {
			appointment, err := getActiveAppointment(txCtx, uc.commitmentRepo, *req.AppointmentID)
			if err != nil {
				uc.logger.Warn("BookRoom: parent appointment check failed: %v", err)
				return err
			}
			parent = appointment
		}

		// 2.2. Блокируем кабинет
		if _, err := uc.capacity.Lock(txCtx, domain.LockPlan{RoomIDs: []int64{req.RoomID}}); err != nil {
			uc.logger.Warn("BookRoom: failed to lock room id=%d: %v", req.RoomID, err)
			return err
		}

		// 2.3. Кабинет не занят на интервал
		if err := uc.detector.CheckExclusive(txCtx, domain.SubjectRoom, req.RoomID, req.StartAt, req.EndAt); err != nil {
			return err
		}

		// 2.4. Создаем бронь и занимаем кабинет
		booking := &domain.Commitment{
			SubjectKind: domain.SubjectRoom,
			SubjectID:   req.RoomID,
			StartAt:     req.StartAt,
			EndAt:       req.EndAt,
			Status:      domain.StatusBooked,
		}
		if parent != nil {
			booking.AppointmentID = ptr.Ptr(parent.ID)
			booking.PatientID = parent.PatientID
		}
		booked, err := uc.commitmentRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("BookRoom: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}
		if err := uc.capacity.Acquire(txCtx, domain.SubjectRoom, req.RoomID); err != nil {
			return err
		}
		created = booked
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("BookRoom: created booking id=%d for room=%d", created.ID, req.RoomID)
	return &Response{Booking: created}, nil
}

// getActiveAppointment возвращает активный прием врача по ID
func getActiveAppointment(ctx context.Context, repo CommitmentRepository, id int64) (*domain.Commitment, error) {
	appointment, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, commitmentRepo.ErrCommitmentNotFound) {
			return nil, fmt.Errorf("%w: appointment id=%d", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: failed to get appointment: %w", ErrInternal, err)
	}
	if !appointment.IsAppointment() {
		return nil, fmt.Errorf("%w: appointment id=%d", domain.ErrNotFound, id)
	}
	if !appointment.IsActive() {
		return nil, fmt.Errorf("%w: appointment id=%d is %s", domain.ErrAlreadyTerminal, id, appointment.Status)
	}
	return appointment, nil
}
