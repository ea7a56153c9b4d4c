package conflicts

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
)

// Detector ищет пересечения с активными бронями и проверяет емкость ресурсов
// Отмененные и завершенные брони не учитываются
type Detector struct {
	commitmentRepo CommitmentRepository
	policy         domain.ResourcePolicy
	logger         Logger
}

// NewDetector создает детектор конфликтов
func NewDetector(commitmentRepo CommitmentRepository, policy domain.ResourcePolicy, logger Logger) *Detector {
	if policy == "" {
		policy = domain.PolicyStrict
	}
	return &Detector{
		commitmentRepo: commitmentRepo,
		policy:         policy,
		logger:         logger,
	}
}

// CountOverlapping считает активные брони субъекта, пересекающие [start, end)
func (d *Detector) CountOverlapping(
	ctx context.Context,
	kind domain.SubjectKind,
	subjectID int64,
	start, end time.Time,
	excludeIDs ...int64,
) (int, error) {
	overlapping, err := d.commitmentRepo.ListActiveOverlapping(ctx, kind, subjectID, start, end, excludeIDs...)
	if err != nil {
		d.logger.Error("CountOverlapping: failed to list commitments for %s id=%d: %v", kind, subjectID, err)
		return 0, fmt.Errorf("%w: list overlapping commitments: %w", ErrInternal, err)
	}
	return len(overlapping), nil
}

// HasConflict true, если у субъекта есть хотя бы одна активная бронь, пересекающая [start, end)
func (d *Detector) HasConflict(
	ctx context.Context,
	kind domain.SubjectKind,
	subjectID int64,
	start, end time.Time,
	excludeIDs ...int64,
) (bool, error) {
	count, err := d.CountOverlapping(ctx, kind, subjectID, start, end, excludeIDs...)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CheckExclusive возвращает ErrDoubleBooked, если врач или кабинет уже заняты на [start, end)
func (d *Detector) CheckExclusive(
	ctx context.Context,
	kind domain.SubjectKind,
	subjectID int64,
	start, end time.Time,
	excludeIDs ...int64,
) error {
	conflict, err := d.HasConflict(ctx, kind, subjectID, start, end, excludeIDs...)
	if err != nil {
		return err
	}
	if conflict {
		d.logger.Warn("CheckExclusive: %s id=%d is already booked for %s - %s",
			kind, subjectID, start.Format(time.RFC3339), end.Format(time.RFC3339))
		return fmt.Errorf("%w: %s id=%d", domain.ErrDoubleBooked, kind, subjectID)
	}
	return nil
}

// CheckResource проверяет, что ресурс может выдать единицу на [start, end)
// needFreeUnit: для новой брони нужна свободная единица (Quantity >= 1); при переносе единица уже удержана
func (d *Detector) CheckResource(
	ctx context.Context,
	resource *domain.Resource,
	start, end time.Time,
	needFreeUnit bool,
	excludeIDs ...int64,
) error {
	if needFreeUnit && !resource.HasFreeUnits() {
		d.logger.Warn("CheckResource: resource id=%d has no free units", resource.ID)
		return fmt.Errorf("%w: resource id=%d has no free units", domain.ErrCapacityExceeded, resource.ID)
	}

	overlapping, err := d.CountOverlapping(ctx, domain.SubjectResource, resource.ID, start, end, excludeIDs...)
	if err != nil {
		return err
	}

	switch d.policy {
	case domain.PolicyExclusive:
		if overlapping > 0 {
			d.logger.Warn("CheckResource: resource id=%d is exclusively booked for the interval", resource.ID)
			return fmt.Errorf("%w: resource id=%d", domain.ErrDoubleBooked, resource.ID)
		}
	default:
		// Если TotalQuantity = 3, допустимо overlapping = 0, 1, 2
		if overlapping >= resource.TotalQuantity {
			d.logger.Warn("CheckResource: resource id=%d capacity exceeded, %d/%d units in use",
				resource.ID, overlapping, resource.TotalQuantity)
			return fmt.Errorf("%w: resource id=%d, %d/%d units in use",
				domain.ErrCapacityExceeded, resource.ID, overlapping, resource.TotalQuantity)
		}
	}
	return nil
}
