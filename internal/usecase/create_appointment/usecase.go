package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-ClinicBooking/internal/infra/storage/schedule"
	subjectRepo "github.com/m04kA/SMC-ClinicBooking/internal/infra/storage/subject"
	"github.com/m04kA/SMC-ClinicBooking/pkg/ptr"
)

const operation = "create_appointment"

// UseCase use case для создания приема врача с кабинетом и ресурсами
type UseCase struct {
	patientRepo    PatientRepository
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
// metrics может быть nil
func NewUseCase(
	patientRepo PatientRepository,
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
		patientRepo:    patientRepo,
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

// Execute выполняет use case создания приема
// Все проверки и изменения выполняются в одной сериализуемой транзакции:
// либо создаются прием и все дочерние брони, либо ничего
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	defer func() {
		if uc.metrics != nil {
			uc.metrics.RecordDecision(operation, domain.ErrorCode(err))
		}
	}()

	uc.logger.Info("CreateAppointment: doctor=%d, patient=%d, startAt=%s, room=%v, resources=%v",
		req.DoctorID, req.PatientID, req.StartAt.Format(time.RFC3339), ptr.Value(req.RoomID), req.ResourceIDs)

	// 1. Валидация входных данных
	plan, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	result := &Response{}

	// 3. Выполняем проверки и запись в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Блокируем врача, кабинет и ресурсы в каноническом порядке
		locked, err := uc.capacity.Lock(txCtx, plan)
		if err != nil {
			uc.logger.Warn("CreateAppointment: failed to lock holders: %v", err)
			return err
		}

		// 3.2. Пациент существует и активен, врач активен
		patient, err := uc.patientRepo.GetPatient(txCtx, req.PatientID)
		if err != nil {
			if errors.Is(err, subjectRepo.ErrPatientNotFound) {
				uc.logger.Warn("CreateAppointment: patient id=%d not found", req.PatientID)
				return fmt.Errorf("%w: patient id=%d", domain.ErrNotFound, req.PatientID)
			}
			uc.logger.Error("CreateAppointment: failed to get patient id=%d: %v", req.PatientID, err)
			return fmt.Errorf("%w: failed to get patient: %w", ErrInternal, err)
		}
		if !locked.Doctor.Active {
			uc.logger.Warn("CreateAppointment: doctor id=%d is inactive", req.DoctorID)
			return fmt.Errorf("%w: doctor id=%d", domain.ErrInactive, req.DoctorID)
		}
		if !patient.Active {
			uc.logger.Warn("CreateAppointment: patient id=%d is inactive", req.PatientID)
			return fmt.Errorf("%w: patient id=%d", domain.ErrInactive, req.PatientID)
		}

		// 3.3. Шаблон расписания и выравнивание по сетке
		local := req.StartAt.In(uc.location)
		day := domain.DayOfWeekOf(local)
		template, err := uc.scheduleRepo.GetByDoctorAndDay(txCtx, req.DoctorID, day)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
				uc.logger.Warn("CreateAppointment: doctor id=%d has no schedule on %s", req.DoctorID, day)
				return fmt.Errorf("%w: doctor id=%d on %s", domain.ErrNoScheduleForDay, req.DoctorID, day)
			}
			uc.logger.Error("CreateAppointment: failed to get schedule: %v", err)
			return fmt.Errorf("%w: failed to get schedule: %w", ErrInternal, err)
		}
		start, end, err := template.SlotAt(req.StartAt, now, uc.location)
		if err != nil {
			uc.logger.Warn("CreateAppointment: slot check failed: %v", err)
			return err
		}

		// 3.4. Конфликты: врач, кабинет, ресурсы
		if err := uc.detector.CheckExclusive(txCtx, domain.SubjectDoctor, req.DoctorID, start, end); err != nil {
			return err
		}
		for _, roomID := range plan.RoomIDs {
			if err := uc.detector.CheckExclusive(txCtx, domain.SubjectRoom, roomID, start, end); err != nil {
				return err
			}
		}
		for _, resourceID := range plan.ResourceIDs {
			if err := uc.detector.CheckResource(txCtx, locked.Resources[resourceID], start, end, true); err != nil {
				return err
			}
		}

		// 3.5. Создаем прием
		appointment, err := uc.commitmentRepo.Create(txCtx, &domain.Commitment{
			SubjectKind: domain.SubjectDoctor,
			SubjectID:   req.DoctorID,
			PatientID:   ptr.Ptr(req.PatientID),
			StartAt:     start,
			EndAt:       end,
			Status:      domain.StatusBooked,
		})
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
		}
		result.Appointment = appointment

		// 3.6. Дочерние брони кабинета и ресурсов, затем изменение емкости
		for _, roomID := range plan.RoomIDs {
			child, err := uc.createChild(txCtx, domain.SubjectRoom, roomID, appointment)
			if err != nil {
				return err
			}
			result.RoomBooking = child
		}
		for _, resourceID := range plan.ResourceIDs {
			child, err := uc.createChild(txCtx, domain.SubjectResource, resourceID, appointment)
			if err != nil {
				return err
			}
			result.ResourceBookings = append(result.ResourceBookings, child)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: created appointment id=%d for doctor=%d at %s",
		result.Appointment.ID, req.DoctorID, result.Appointment.StartAt.Format(time.RFC3339))
	return result, nil
}

// createChild создает бронь кабинета или ресурса под прием и занимает емкость
func (uc *UseCase) createChild(
	ctx context.Context,
	kind domain.SubjectKind,
	subjectID int64,
	appointment *domain.Commitment,
) (*domain.Commitment, error) {
	child, err := uc.commitmentRepo.Create(ctx, &domain.Commitment{
		SubjectKind:   kind,
		SubjectID:     subjectID,
		PatientID:     appointment.PatientID,
		AppointmentID: ptr.Ptr(appointment.ID),
		StartAt:       appointment.StartAt,
		EndAt:         appointment.EndAt,
		Status:        domain.StatusBooked,
	})
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to create %s booking id=%d: %v", kind, subjectID, err)
		return nil, fmt.Errorf("%w: failed to create %s booking: %w", ErrInternal, kind, err)
	}
	if err := uc.capacity.Acquire(ctx, kind, subjectID); err != nil {
		uc.logger.Warn("CreateAppointment: failed to acquire %s id=%d: %v", kind, subjectID, err)
		return nil, err
	}
	return child, nil
}
