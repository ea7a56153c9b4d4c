package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-ClinicBooking/internal/infra/storage/schedule"
	subjectRepo "github.com/m04kA/SMC-ClinicBooking/internal/infra/storage/subject"
)

// UseCase use case для получения свободных слотов врача
type UseCase struct {
	doctorRepo     DoctorRepository
	scheduleRepo   ScheduleRepository
	commitmentRepo CommitmentRepository
	location       *time.Location
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
// location - часовой пояс клиники, в котором заданы шаблоны расписания
func NewUseCase(
	doctorRepo DoctorRepository,
	scheduleRepo ScheduleRepository,
	commitmentRepo CommitmentRepository,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		doctorRepo:     doctorRepo,
		scheduleRepo:   scheduleRepo,
		commitmentRepo: commitmentRepo,
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

// Execute выполняет use case получения свободных слотов
// Операция только читает данные и не блокирует строки
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: doctor=%d, date=%s", req.DoctorID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()
	date := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, uc.location)
	day := domain.DayOfWeekOf(date)

	// 3. Получаем врача
	doctor, err := uc.doctorRepo.GetDoctor(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, subjectRepo.ErrDoctorNotFound) {
			uc.logger.Warn("GetAvailableSlots: doctor id=%d not found", req.DoctorID)
			return nil, fmt.Errorf("%w: doctor id=%d", domain.ErrNotFound, req.DoctorID)
		}
		uc.logger.Error("GetAvailableSlots: failed to get doctor id=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: failed to get doctor: %w", ErrInternal, err)
	}

	// 4. Получаем шаблон на день недели
	template, err := uc.scheduleRepo.GetByDoctorAndDay(ctx, req.DoctorID, day)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			uc.logger.Warn("GetAvailableSlots: doctor id=%d has no schedule on %s", req.DoctorID, day)
			return nil, fmt.Errorf("%w: doctor id=%d on %s", domain.ErrNoScheduleForDay, req.DoctorID, day)
		}
		uc.logger.Error("GetAvailableSlots: failed to get schedule: %v", err)
		return nil, fmt.Errorf("%w: failed to get schedule: %w", ErrInternal, err)
	}

	response := &Response{
		DoctorID:            req.DoctorID,
		Date:                date,
		DayOfWeek:           day,
		SlotDurationMinutes: template.SlotDurationMinutes,
		Slots:               []domain.AvailableSlot{},
	}

	// Отключенный врач не принимает, слотов нет
	if !doctor.Active {
		uc.logger.Info("GetAvailableSlots: doctor id=%d is inactive", req.DoctorID)
		return response, nil
	}

	// 5. Получаем активные приемы врача в пределах рабочего окна
	windowStart, windowEnd, err := template.Window(date, uc.location)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: invalid schedule id=%d: %v", template.ID, err)
		return nil, fmt.Errorf("%w: failed to resolve schedule window: %w", ErrInternal, err)
	}
	busy, err := uc.commitmentRepo.ListActiveOverlapping(ctx, domain.SubjectDoctor, req.DoctorID, windowStart, windowEnd)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %w", ErrInternal, err)
	}

	// 6. Генерируем свободные слоты
	slots, err := generateSlots(template, date, uc.location, now, busy)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate slots: %w", ErrInternal, err)
	}
	response.Slots = slots

	uc.logger.Info("GetAvailableSlots: generated %d slots for doctor=%d, date=%s",
		len(slots), req.DoctorID, date.Format(domain.DateFormat))
	return response, nil
}
