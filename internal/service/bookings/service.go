package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
	capacityRepo "github.com/m04kA/SMC-ClinicBooking/internal/infra/storage/capacity"
	commitmentRepo "github.com/m04kA/SMC-ClinicBooking/internal/infra/storage/commitment"
	subjectRepo "github.com/m04kA/SMC-ClinicBooking/internal/infra/storage/subject"
	"github.com/m04kA/SMC-ClinicBooking/internal/service/bookings/models"
)

// Service сервис чтения броней
// Изменения броней выполняются только через usecase арбитра
type Service struct {
	commitmentRepo CommitmentRepository
	subjectRepo    SubjectRepository
	holderRepo     HolderRepository
	location       *time.Location
	logger         Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	commitmentRepo CommitmentRepository,
	subjectRepo SubjectRepository,
	holderRepo HolderRepository,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		commitmentRepo: commitmentRepo,
		subjectRepo:    subjectRepo,
		holderRepo:     holderRepo,
		location:       location,
		logger:         logger,
	}
}

// GetByID получает бронь по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	commitment, err := s.commitmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, commitmentRepo.ErrCommitmentNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainCommitment(commitment, s.location), nil
}

// ListBySubject получает брони врача, кабинета или ресурса
// Поддерживает фильтрацию по периоду, статусу и включению неактивных броней
//
// Примеры использования:
// - Активные брони кабинета: SubjectKind = "room"
// - Брони ресурса за день: From и To на границах дня
// - Включая отмененные: IncludeInactive = true
func (s *Service) ListBySubject(ctx context.Context, req *models.ListBySubjectRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("ListBySubject: fetching bookings for %s id=%d", req.SubjectKind, req.SubjectID)
	if req.From != nil && req.To != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.From.Format(time.RFC3339), req.To.Format(time.RFC3339))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListBySubject: invalid filter: %v", err)
		return nil, err
	}

	if err := s.ensureSubjectExists(ctx, *filter.SubjectKind, req.SubjectID); err != nil {
		return nil, err
	}

	commitments, err := s.commitmentRepo.ListWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ListBySubject: repository error for %s id=%d: %v", req.SubjectKind, req.SubjectID, err)
		return nil, fmt.Errorf("%w: ListBySubject - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("ListBySubject: fetched %d bookings for %s id=%d", len(commitments), req.SubjectKind, req.SubjectID)
	return models.FromDomainCommitmentList(commitments, s.location), nil
}

// ListByPatient получает историю приемов пациента, включая отмененные и завершенные
func (s *Service) ListByPatient(ctx context.Context, patientID int64) (*models.BookingListResponse, error) {
	s.logger.Info("ListByPatient: fetching appointments for patient=%d", patientID)

	if _, err := s.subjectRepo.GetPatient(ctx, patientID); err != nil {
		if errors.Is(err, subjectRepo.ErrPatientNotFound) {
			s.logger.Warn("ListByPatient: patient id=%d not found", patientID)
			return nil, ErrSubjectNotFound
		}
		s.logger.Error("ListByPatient: failed to get patient id=%d: %v", patientID, err)
		return nil, fmt.Errorf("%w: ListByPatient - get patient: %w", ErrInternal, err)
	}

	kind := domain.SubjectDoctor
	commitments, err := s.commitmentRepo.ListWithFilter(ctx, domain.CommitmentFilter{
		SubjectKind:     &kind,
		PatientID:       &patientID,
		IncludeInactive: true,
	})
	if err != nil {
		s.logger.Error("ListByPatient: repository error for patient=%d: %v", patientID, err)
		return nil, fmt.Errorf("%w: ListByPatient - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainCommitmentList(commitments, s.location), nil
}

// ensureSubjectExists проверяет существование субъекта брони
func (s *Service) ensureSubjectExists(ctx context.Context, kind domain.SubjectKind, id int64) error {
	var err error
	switch kind {
	case domain.SubjectDoctor:
		_, err = s.subjectRepo.GetDoctor(ctx, id)
	case domain.SubjectRoom:
		_, err = s.holderRepo.GetRoom(ctx, id)
	case domain.SubjectResource:
		_, err = s.holderRepo.GetResource(ctx, id)
	}
	if err == nil {
		return nil
	}

	if errors.Is(err, subjectRepo.ErrDoctorNotFound) ||
		errors.Is(err, capacityRepo.ErrRoomNotFound) ||
		errors.Is(err, capacityRepo.ErrResourceNotFound) {
		s.logger.Warn("ensureSubjectExists: %s id=%d not found", kind, id)
		return fmt.Errorf("%w: %s id=%d", ErrSubjectNotFound, kind, id)
	}
	s.logger.Error("ensureSubjectExists: failed to get %s id=%d: %v", kind, id, err)
	return fmt.Errorf("%w: get %s: %w", ErrInternal, kind, err)
}
