package book_resource

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
	commitmentRepo "github.com/m04kA/SMC-ClinicBooking/internal/infra/storage/commitment"
	"github.com/m04kA/SMC-ClinicBooking/pkg/ptr"
)

const operation = "book_resource"

// UseCase use case для брони единицы ресурса
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

// Execute выполняет use case брони ресурса
// Выдача требует свободной единицы и проходит проверку политики ресурса
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	defer func() {
		if uc.metrics != nil {
			uc.metrics.RecordDecision(operation, domain.ErrorCode(err))
		}
	}()

	uc.logger.Info("BookResource: resource=%d, %s - %s, appointment=%v",
		req.ResourceID, req.StartAt.Format(time.RFC3339), req.EndAt.Format(time.RFC3339), ptr.Value(req.AppointmentID))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookResource: validation failed: %v", err)
		return nil, err
	}

	result := &Response{}

	// 2. Проверка и запись в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Родительский прием блокируется раньше держателя
		var parent *domain.Commitment
		if req.AppointmentID != nil {
			appointment, err := getActiveAppointment(txCtx, uc.commitmentRepo, *req.AppointmentID)
			if err != nil {
				uc.logger.Warn("BookResource: parent appointment check failed: %v", err)
				return err
			}
			parent = appointment
		}

		// 2.2. Блокируем ресурс
		locked, err := uc.capacity.Lock(txCtx, domain.LockPlan{ResourceIDs: []int64{req.ResourceID}})
		if err != nil {
			uc.logger.Warn("BookResource: failed to lock resource id=%d: %v", req.ResourceID, err)
			return err
		}
		resource := locked.Resources[req.ResourceID]

		// 2.3. Свободная единица и емкость на интервал
		if err := uc.detector.CheckResource(txCtx, resource, req.StartAt, req.EndAt, true); err != nil {
			return err
		}

		// 2.4. Создаем бронь и списываем единицу
		booking := &domain.Commitment{
			SubjectKind: domain.SubjectResource,
			SubjectID:   req.ResourceID,
			StartAt:     req.StartAt,
			EndAt:       req.EndAt,
			Status:      domain.StatusBooked,
		}
		if parent != nil {
			booking.AppointmentID = ptr.Ptr(parent.ID)
			booking.PatientID = parent.PatientID
		}
		created, err := uc.commitmentRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("BookResource: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}
		if err := uc.capacity.Acquire(txCtx, domain.SubjectResource, req.ResourceID); err != nil {
			return err
		}

		result.Booking = created
		result.RemainingQuantity = resource.Quantity - 1
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("BookResource: created booking id=%d for resource=%d, %d units left",
		result.Booking.ID, req.ResourceID, result.RemainingQuantity)
	return result, nil
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
