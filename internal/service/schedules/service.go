package schedules

import (
	"context"
	"errors"
	"fmt"

	scheduleRepo "github.com/m04kA/SMC-ClinicBooking/internal/infra/storage/schedule"
	subjectRepo "github.com/m04kA/SMC-ClinicBooking/internal/infra/storage/subject"
	"github.com/m04kA/SMC-ClinicBooking/internal/service/schedules/models"
)

// Service сервис для работы с шаблонами расписания врачей
type Service struct {
	scheduleRepo ScheduleRepository
	doctorRepo   DoctorRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	scheduleRepo ScheduleRepository,
	doctorRepo DoctorRepository,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		doctorRepo:   doctorRepo,
		logger:       logger,
	}
}

// Create создает шаблон расписания врача на день недели
func (s *Service) Create(ctx context.Context, req *models.CreateScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("Create: creating schedule for doctor=%d, day=%s", req.DoctorID, req.DayOfWeek)

	template, err := req.ToDomainSchedule()
	if err != nil {
		s.logger.Warn("Create: invalid request for doctor=%d: %v", req.DoctorID, err)
		return nil, err
	}
	if err := template.Validate(); err != nil {
		s.logger.Warn("Create: validation failed for doctor=%d: %v", req.DoctorID, err)
		return nil, err
	}

	if err := s.ensureDoctorExists(ctx, template.DoctorID); err != nil {
		return nil, err
	}

	created, err := s.scheduleRepo.Create(ctx, template)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleAlreadyExists) {
			s.logger.Warn("Create: schedule already exists for doctor=%d, day=%s", template.DoctorID, template.DayOfWeek)
			return nil, ErrScheduleAlreadyExists
		}
		s.logger.Error("Create: repository error for doctor=%d: %v", template.DoctorID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("Create: created schedule id=%d for doctor=%d", created.ID, created.DoctorID)
	return models.FromDomainSchedule(created), nil
}

// GetByID получает шаблон расписания по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.ScheduleResponse, error) {
	template, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			s.logger.Warn("GetByID: schedule id=%d not found", id)
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("GetByID: repository error for schedule id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %w", ErrInternal, err)
	}
	return models.FromDomainSchedule(template), nil
}

// ListByDoctor возвращает шаблоны врача в порядке MONDAY..SUNDAY
func (s *Service) ListByDoctor(ctx context.Context, doctorID int64) (*models.ScheduleListResponse, error) {
	if err := s.ensureDoctorExists(ctx, doctorID); err != nil {
		return nil, err
	}

	templates, err := s.scheduleRepo.ListByDoctor(ctx, doctorID)
	if err != nil {
		s.logger.Error("ListByDoctor: repository error for doctor=%d: %v", doctorID, err)
		return nil, fmt.Errorf("%w: ListByDoctor - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("ListByDoctor: found %d schedules for doctor=%d", len(templates), doctorID)
	return models.FromDomainScheduleList(templates), nil
}

// Update обновляет шаблон расписания
// Проверка дубликата (doctor, day) не учитывает сам обновляемый шаблон
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("Update: updating schedule id=%d", id)

	existing, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			s.logger.Warn("Update: schedule id=%d not found", id)
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("Update: failed to get schedule id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - get schedule: %w", ErrInternal, err)
	}

	if err := req.ApplyToSchedule(existing); err != nil {
		s.logger.Warn("Update: invalid request for schedule id=%d: %v", id, err)
		return nil, err
	}
	if err := existing.Validate(); err != nil {
		s.logger.Warn("Update: validation failed for schedule id=%d: %v", id, err)
		return nil, err
	}

	updated, err := s.scheduleRepo.Update(ctx, existing)
	if err != nil {
		switch {
		case errors.Is(err, scheduleRepo.ErrScheduleNotFound):
			return nil, ErrScheduleNotFound
		case errors.Is(err, scheduleRepo.ErrScheduleAlreadyExists):
			s.logger.Warn("Update: doctor=%d already has a schedule for %s", existing.DoctorID, existing.DayOfWeek)
			return nil, ErrScheduleAlreadyExists
		}
		s.logger.Error("Update: repository error for schedule id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("Update: schedule id=%d updated", id)
	return models.FromDomainSchedule(updated), nil
}

// Delete удаляет шаблон расписания
// Существующие приемы не затрагиваются
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.scheduleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			s.logger.Warn("Delete: schedule id=%d not found", id)
			return ErrScheduleNotFound
		}
		s.logger.Error("Delete: repository error for schedule id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %w", ErrInternal, err)
	}
	s.logger.Info("Delete: schedule id=%d deleted", id)
	return nil
}

func (s *Service) ensureDoctorExists(ctx context.Context, doctorID int64) error {
	if _, err := s.doctorRepo.GetDoctor(ctx, doctorID); err != nil {
		if errors.Is(err, subjectRepo.ErrDoctorNotFound) {
			s.logger.Warn("doctor id=%d not found", doctorID)
			return ErrDoctorNotFound
		}
		s.logger.Error("failed to get doctor id=%d: %v", doctorID, err)
		return fmt.Errorf("%w: get doctor: %w", ErrInternal, err)
	}
	return nil
}
