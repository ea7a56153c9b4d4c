package reconcile_expired

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
	commitmentRepo "github.com/m04kA/SMC-ClinicBooking/internal/infra/storage/commitment"
)

// UseCase use case возврата емкости по истекшим броням
type UseCase struct {
	commitmentRepo CommitmentRepository
	capacity       CapacityService
	txManager      TransactionManager
	metrics        MetricsRecorder
	batchSize      int
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
// batchSize - размер страницы выборки истекших броней
func NewUseCase(
	commitmentRepo CommitmentRepository,
	capacity CapacityService,
	txManager TransactionManager,
	metrics MetricsRecorder,
	batchSize int,
	logger Logger,
) *UseCase {
	if batchSize <= 0 {
		batchSize = domain.DefaultReconcileBatchSize
	}
	return &UseCase{
		commitmentRepo: commitmentRepo,
		capacity:       capacity,
		txManager:      txManager,
		metrics:        metrics,
		batchSize:      batchSize,
		logger:         logger,
	}
}

// Execute завершает все активные брони с end_at <= now и возвращает их емкость
// Каждая бронь обрабатывается в своей транзакции; ошибка по одной броне не останавливает проход.
// Повторный запуск с тем же now ничего не меняет
func (uc *UseCase) Execute(ctx context.Context, now time.Time) (*Response, error) {
	uc.logger.Info("ReconcileExpired: sweeping bookings ended before %s", now.Format(time.RFC3339))

	result := &Response{Now: now}
	defer func() {
		if uc.metrics != nil {
			uc.metrics.RecordReconcile(result.Reclaimed, result.Failed, float64(time.Now().Unix()))
		}
	}()

	var afterID int64
	for {
		if err := ctx.Err(); err != nil {
			uc.logger.Warn("ReconcileExpired: stopped after %d bookings: %v", result.Reclaimed, err)
			return result, err
		}

		// Страница id по возрастанию; курсор afterID пропускает брони, упавшие с ошибкой
		ids, err := uc.commitmentRepo.ListExpiredIDs(ctx, now, afterID, uc.batchSize)
		if err != nil {
			uc.logger.Error("ReconcileExpired: failed to list expired bookings after id=%d: %v", afterID, err)
			return result, fmt.Errorf("%w: failed to list expired bookings: %w", ErrInternal, err)
		}
		if len(ids) == 0 {
			break
		}

		for _, id := range ids {
			reclaimed, err := uc.reconcileOne(ctx, id, now)
			if err != nil {
				result.Failed++
				uc.logger.Error("ReconcileExpired: failed to complete booking id=%d: %v", id, err)
				continue
			}
			if reclaimed {
				result.Reclaimed++
			}
		}
		afterID = ids[len(ids)-1]
	}

	uc.logger.Info("ReconcileExpired: reclaimed %d bookings, %d failed", result.Reclaimed, result.Failed)
	return result, nil
}

// reconcileOne завершает одну бронь; false, если ее уже отменили, завершили или перенесли
func (uc *UseCase) reconcileOne(ctx context.Context, id int64, now time.Time) (bool, error) {
	reclaimed := false
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		c, err := uc.commitmentRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, commitmentRepo.ErrCommitmentNotFound) {
				return nil
			}
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}
		if !c.IsExpired(now) {
			return nil
		}

		if _, err := uc.capacity.Lock(txCtx, domain.LockPlanFor(c)); err != nil {
			return err
		}

		changed, err := uc.commitmentRepo.TransitionStatus(txCtx, id, domain.StatusCompleted, now)
		if err != nil {
			return fmt.Errorf("%w: failed to complete booking: %w", ErrInternal, err)
		}
		if !changed {
			return nil
		}
		if err := uc.capacity.Release(txCtx, c.SubjectKind, c.SubjectID); err != nil {
			return err
		}
		reclaimed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return reclaimed, nil
}
