package check_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
	capacityRepo "github.com/m04kA/SMC-ClinicBooking/internal/infra/storage/capacity"
	subjectRepo "github.com/m04kA/SMC-ClinicBooking/internal/infra/storage/subject"
)

// UseCase use case проверки доступности врача, кабинета или ресурса на интервал
type UseCase struct {
	subjectRepo SubjectRepository
	holderRepo  HolderRepository
	detector    ConflictDetector
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	subjectRepo SubjectRepository,
	holderRepo HolderRepository,
	detector ConflictDetector,
	logger Logger,
) *UseCase {
	return &UseCase{
		subjectRepo: subjectRepo,
		holderRepo:  holderRepo,
		detector:    detector,
		logger:      logger,
	}
}

// Execute выполняет проверку без блокировок и без изменений
// Ответ отражает состояние на момент чтения и не резервирует интервал
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckAvailability: %s id=%d, %s - %s",
		req.Kind, req.SubjectID, req.StartAt.Format(time.RFC3339), req.EndAt.Format(time.RFC3339))

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CheckAvailability: validation failed: %v", err)
		return nil, err
	}

	var checkErr error
	switch req.Kind {
	case domain.SubjectDoctor:
		doctor, err := uc.subjectRepo.GetDoctor(ctx, req.SubjectID)
		if err != nil {
			return nil, uc.lookupError(err, req)
		}
		if !doctor.Active {
			return &Response{Available: false, Reason: domain.CodeInactive}, nil
		}
		checkErr = uc.detector.CheckExclusive(ctx, domain.SubjectDoctor, req.SubjectID, req.StartAt, req.EndAt)

	case domain.SubjectRoom:
		if _, err := uc.holderRepo.GetRoom(ctx, req.SubjectID); err != nil {
			return nil, uc.lookupError(err, req)
		}
		checkErr = uc.detector.CheckExclusive(ctx, domain.SubjectRoom, req.SubjectID, req.StartAt, req.EndAt)

	case domain.SubjectResource:
		resource, err := uc.holderRepo.GetResource(ctx, req.SubjectID)
		if err != nil {
			return nil, uc.lookupError(err, req)
		}
		checkErr = uc.detector.CheckResource(ctx, resource, req.StartAt, req.EndAt, true)
	}

	switch {
	case checkErr == nil:
		return &Response{Available: true}, nil
	case errors.Is(checkErr, domain.ErrDoubleBooked), errors.Is(checkErr, domain.ErrCapacityExceeded):
		return &Response{Available: false, Reason: domain.ErrorCode(checkErr)}, nil
	default:
		uc.logger.Error("CheckAvailability: check failed for %s id=%d: %v", req.Kind, req.SubjectID, checkErr)
		return nil, fmt.Errorf("%w: %w", ErrInternal, checkErr)
	}
}

// lookupError переводит ошибки чтения субъекта
func (uc *UseCase) lookupError(err error, req *Request) error {
	if errors.Is(err, subjectRepo.ErrDoctorNotFound) ||
		errors.Is(err, capacityRepo.ErrRoomNotFound) ||
		errors.Is(err, capacityRepo.ErrResourceNotFound) {
		uc.logger.Warn("CheckAvailability: %s id=%d not found", req.Kind, req.SubjectID)
		return fmt.Errorf("%w: %s id=%d", domain.ErrNotFound, req.Kind, req.SubjectID)
	}
	uc.logger.Error("CheckAvailability: failed to get %s id=%d: %v", req.Kind, req.SubjectID, err)
	return fmt.Errorf("%w: failed to get %s: %w", ErrInternal, req.Kind, err)
}
