package cancel_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
	commitmentRepo "github.com/m04kA/SMC-ClinicBooking/internal/infra/storage/commitment"
)

const operation = "cancel_booking"

// UseCase use case для отмены приема, брони кабинета или ресурса
type UseCase struct {
	commitmentRepo CommitmentRepository
	capacity       CapacityService
	txManager      TransactionManager
	metrics        MetricsRecorder
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	commitmentRepo CommitmentRepository,
	capacity CapacityService,
	txManager TransactionManager,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		commitmentRepo: commitmentRepo,
		capacity:       capacity,
		txManager:      txManager,
		metrics:        metrics,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case отмены
// Отмена приема каскадно отменяет его активные брони кабинета и ресурсов
// Повторная отмена возвращает ErrAlreadyTerminal и не меняет емкость
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	defer func() {
		if uc.metrics != nil {
			uc.metrics.RecordDecision(operation, domain.ErrorCode(err))
		}
	}()

	uc.logger.Info("CancelBooking: booking id=%d", req.BookingID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	result := &Response{}

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2. Блокируем бронь
		target, err := uc.commitmentRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, commitmentRepo.ErrCommitmentNotFound) {
				uc.logger.Warn("CancelBooking: booking id=%d not found", req.BookingID)
				return fmt.Errorf("%w: booking id=%d", domain.ErrNotFound, req.BookingID)
			}
			uc.logger.Error("CancelBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}
		if req.Kind != nil && target.SubjectKind != *req.Kind {
			uc.logger.Warn("CancelBooking: booking id=%d is a %s booking, not %s", req.BookingID, target.SubjectKind, *req.Kind)
			return fmt.Errorf("%w: %s booking id=%d", domain.ErrNotFound, *req.Kind, req.BookingID)
		}
		if !target.IsActive() {
			uc.logger.Warn("CancelBooking: booking id=%d is already %s", req.BookingID, target.Status)
			return fmt.Errorf("%w: booking id=%d is %s", domain.ErrAlreadyTerminal, req.BookingID, target.Status)
		}

		// 3. Дочерние брони приема блокируются вместе с ним
		commitments := []*domain.Commitment{target}
		if target.IsAppointment() {
			children, err := uc.commitmentRepo.ListActiveByAppointment(txCtx, target.ID)
			if err != nil {
				uc.logger.Error("CancelBooking: failed to get child bookings of id=%d: %v", target.ID, err)
				return fmt.Errorf("%w: failed to get child bookings: %w", ErrInternal, err)
			}
			commitments = append(commitments, children...)
		}

		// 4. Блокируем держателей в каноническом порядке
		if _, err := uc.capacity.Lock(txCtx, domain.LockPlanFor(commitments...)); err != nil {
			uc.logger.Warn("CancelBooking: failed to lock holders: %v", err)
			return err
		}

		// 5. Переводим в cancelled и возвращаем емкость
		for _, c := range commitments {
			changed, err := uc.commitmentRepo.TransitionStatus(txCtx, c.ID, domain.StatusCancelled, now)
			if err != nil {
				uc.logger.Error("CancelBooking: failed to cancel booking id=%d: %v", c.ID, err)
				return fmt.Errorf("%w: failed to cancel booking: %w", ErrInternal, err)
			}
			if !changed {
				if c.ID == target.ID {
					return fmt.Errorf("%w: booking id=%d", domain.ErrAlreadyTerminal, c.ID)
				}
				continue
			}
			if err := uc.capacity.Release(txCtx, c.SubjectKind, c.SubjectID); err != nil {
				uc.logger.Error("CancelBooking: failed to release %s id=%d: %v", c.SubjectKind, c.SubjectID, err)
				return err
			}

			cancelledAt := now
			c.Status = domain.StatusCancelled
			c.CancelledAt = &cancelledAt
			result.Cancelled = append(result.Cancelled, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CancelBooking: cancelled booking id=%d with %d child bookings",
		req.BookingID, len(result.Cancelled)-1)
	return result, nil
}
