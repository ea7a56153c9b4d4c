package reschedule_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
	commitmentRepo "github.com/m04kA/SMC-ClinicBooking/internal/infra/storage/commitment"
	scheduleRepo "github.com/m04kA/SMC-ClinicBooking/internal/infra/storage/schedule"
)

const operation = "reschedule_appointment"

// UseCase use case для переноса приема вместе с его бронями кабинета и ресурсов
type UseCase struct {
	scheduleRepo   ScheduleRepository
	commitmentRepo CommitmentRepository
	detector       ConflictDetector
	capacity       CapacityService
	txManager      TransactionManager
	metrics        MetricsRecorder
	location       *time.Location
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	scheduleRepo ScheduleRepository,
	commitmentRepo CommitmentRepository,
	detector ConflictDetector,
	capacity CapacityService,
	txManager TransactionManager,
	metrics MetricsRecorder,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		scheduleRepo:   scheduleRepo,
		commitmentRepo: commitmentRepo,
		detector:       detector,
		capacity:       capacity,
		txManager:      txManager,
		metrics:        metrics,
		location:       location,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case переноса приема
// Проверки те же, что при создании, но переносимые брони не считаются конфликтами.
// Емкость не меняется: единицы ресурсов уже удержаны
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	defer func() {
		if uc.metrics != nil {
			uc.metrics.RecordDecision(operation, domain.ErrorCode(err))
		}
	}()

	uc.logger.Info("RescheduleAppointment: appointment id=%d, new startAt=%s",
		req.AppointmentID, req.StartAt.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleAppointment: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	result := &Response{}

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2. Блокируем прием и его дочерние брони
		appointment, err := uc.commitmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, commitmentRepo.ErrCommitmentNotFound) {
				uc.logger.Warn("RescheduleAppointment: appointment id=%d not found", req.AppointmentID)
				return fmt.Errorf("%w: appointment id=%d", domain.ErrNotFound, req.AppointmentID)
			}
			uc.logger.Error("RescheduleAppointment: failed to get appointment: %v", err)
			return fmt.Errorf("%w: failed to get appointment: %w", ErrInternal, err)
		}
		if !appointment.IsAppointment() {
			return fmt.Errorf("%w: appointment id=%d", domain.ErrNotFound, req.AppointmentID)
		}
		if !appointment.IsActive() {
			uc.logger.Warn("RescheduleAppointment: appointment id=%d is already %s", appointment.ID, appointment.Status)
			return fmt.Errorf("%w: appointment id=%d is %s", domain.ErrAlreadyTerminal, appointment.ID, appointment.Status)
		}
		children, err := uc.commitmentRepo.ListActiveByAppointment(txCtx, appointment.ID)
		if err != nil {
			uc.logger.Error("RescheduleAppointment: failed to get child bookings: %v", err)
			return fmt.Errorf("%w: failed to get child bookings: %w", ErrInternal, err)
		}

		// 3. Блокируем держателей в каноническом порядке
		moving := append([]*domain.Commitment{appointment}, children...)
		locked, err := uc.capacity.Lock(txCtx, domain.LockPlanFor(moving...))
		if err != nil {
			uc.logger.Warn("RescheduleAppointment: failed to lock holders: %v", err)
			return err
		}
		if !locked.Doctor.Active {
			return fmt.Errorf("%w: doctor id=%d", domain.ErrInactive, locked.Doctor.ID)
		}

		// 4. Шаблон нового дня и выравнивание по сетке
		local := req.StartAt.In(uc.location)
		day := domain.DayOfWeekOf(local)
		template, err := uc.scheduleRepo.GetByDoctorAndDay(txCtx, appointment.SubjectID, day)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
				return fmt.Errorf("%w: doctor id=%d on %s", domain.ErrNoScheduleForDay, appointment.SubjectID, day)
			}
			uc.logger.Error("RescheduleAppointment: failed to get schedule: %v", err)
			return fmt.Errorf("%w: failed to get schedule: %w", ErrInternal, err)
		}
		start, end, err := template.SlotAt(req.StartAt, now, uc.location)
		if err != nil {
			uc.logger.Warn("RescheduleAppointment: slot check failed: %v", err)
			return err
		}

		// 5. Конфликты без учета переносимых броней
		excludeIDs := make([]int64, 0, len(moving))
		for _, c := range moving {
			excludeIDs = append(excludeIDs, c.ID)
		}
		for _, c := range moving {
			switch c.SubjectKind {
			case domain.SubjectDoctor, domain.SubjectRoom:
				err = uc.detector.CheckExclusive(txCtx, c.SubjectKind, c.SubjectID, start, end, excludeIDs...)
			case domain.SubjectResource:
				err = uc.detector.CheckResource(txCtx, locked.Resources[c.SubjectID], start, end, false, excludeIDs...)
			}
			if err != nil {
				return err
			}
		}

		// 6. Переносим
		for _, c := range moving {
			if err := uc.commitmentRepo.Reschedule(txCtx, c.ID, start, end); err != nil {
				uc.logger.Error("RescheduleAppointment: failed to move booking id=%d: %v", c.ID, err)
				return fmt.Errorf("%w: failed to move booking: %w", ErrInternal, err)
			}
			c.StartAt = start
			c.EndAt = end
		}

		result.Appointment = appointment
		result.Children = children
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleAppointment: appointment id=%d moved to %s with %d child bookings",
		req.AppointmentID, result.Appointment.StartAt.Format(time.RFC3339), len(result.Children))
	return result, nil
}
