package commitment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
	"github.com/m04kA/SMC-ClinicBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicBooking/pkg/psqlbuilder"
)

const tableName = "commitments"

var columns = []string{
	"id",
	"subject_kind",
	"subject_id",
	"patient_id",
	"appointment_id",
	"start_at",
	"end_at",
	"status",
	"cancelled_at",
	"completed_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий броней (приемы, брони кабинетов и ресурсов)
// Брони не удаляются: терминальные статусы сохраняют историю
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория броней
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает бронь
func (r *Repository) Create(ctx context.Context, c *domain.Commitment) (*domain.Commitment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns("subject_kind", "subject_id", "patient_id", "appointment_id", "start_at", "end_at", "status").
		Values(c.SubjectKind, c.SubjectID, c.PatientID, c.AppointmentID, c.StartAt.UTC(), c.EndAt.UTC(), c.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}
	return c, nil
}

// GetByID получает бронь по ID
// Внутри транзакции строка блокируется (FOR UPDATE): так отмена и реконсилер не обработают бронь дважды
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Commitment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"id": id})
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	c, err := scanCommitment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCommitmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan commitment: %w", ErrScanRow, err)
	}
	return c, nil
}

// ListActiveOverlapping получает активные брони субъекта, пересекающие [start, end)
// Условие пересечения полуоткрытое: start_at < end AND end_at > start
func (r *Repository) ListActiveOverlapping(
	ctx context.Context,
	kind domain.SubjectKind,
	subjectID int64,
	start, end time.Time,
	excludeIDs ...int64,
) ([]*domain.Commitment, error) {
	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"subject_kind": kind, "subject_id": subjectID, "status": domain.StatusBooked}).
		Where(squirrel.Lt{"start_at": end.UTC()}).
		Where(squirrel.Gt{"end_at": start.UTC()}).
		OrderBy("start_at", "id")
	if len(excludeIDs) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": excludeIDs})
	}
	return r.list(ctx, "ListActiveOverlapping", selectBuilder)
}

// ListActiveByAppointment получает активные дочерние брони приема по возрастанию id
// Внутри транзакции строки блокируются
func (r *Repository) ListActiveByAppointment(ctx context.Context, appointmentID int64) ([]*domain.Commitment, error) {
	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"appointment_id": appointmentID, "status": domain.StatusBooked}).
		OrderBy("id")
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}
	return r.list(ctx, "ListActiveByAppointment", selectBuilder)
}

// ListWithFilter получает брони с фильтрацией
func (r *Repository) ListWithFilter(ctx context.Context, filter domain.CommitmentFilter) ([]*domain.Commitment, error) {
	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		OrderBy("start_at", "id")

	if filter.SubjectKind != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"subject_kind": *filter.SubjectKind})
	}
	if filter.SubjectID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"subject_id": *filter.SubjectID})
	}
	if filter.PatientID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"patient_id": *filter.PatientID})
	}
	if filter.AppointmentID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"appointment_id": *filter.AppointmentID})
	}
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.Gt{"end_at": filter.From.UTC()})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_at": filter.To.UTC()})
	}

	// Статус из фильтра важнее флага IncludeInactive
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": domain.ActiveStatuses})
	}

	return r.list(ctx, "ListWithFilter", selectBuilder)
}

// ListExpiredIDs возвращает id активных броней с end_at <= now по возрастанию, не больше limit
func (r *Repository) ListExpiredIDs(ctx context.Context, now time.Time, afterID int64, limit int) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id").
		From(tableName).
		Where(squirrel.Eq{"status": domain.StatusBooked}).
		Where(squirrel.LtOrEq{"end_at": now.UTC()}).
		Where(squirrel.Gt{"id": afterID}).
		OrderBy("id").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiredIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiredIDs - execute select: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0, limit)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ListExpiredIDs - scan id: %w", ErrScanRow, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListExpiredIDs - iterate rows: %w", ErrExecQuery, err)
	}
	return ids, nil
}

// CountActiveBySubject считает активные брони субъекта
func (r *Repository) CountActiveBySubject(ctx context.Context, kind domain.SubjectKind, subjectID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(tableName).
		Where(squirrel.Eq{"subject_kind": kind, "subject_id": subjectID, "status": domain.StatusBooked}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveBySubject - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveBySubject - scan count: %w", ErrScanRow, err)
	}
	return count, nil
}

// TransitionStatus переводит активную бронь в терминальный статус (check-and-set по status = 'booked')
// Возвращает false, если бронь уже не активна: повторное освобождение емкости недопустимо
func (r *Repository) TransitionStatus(ctx context.Context, id int64, to domain.CommitmentStatus, at time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update(tableName).
		Set("status", to).
		Set("updated_at", at.UTC()).
		Where(squirrel.Eq{"id": id, "status": domain.StatusBooked})

	switch to {
	case domain.StatusCancelled:
		updateBuilder = updateBuilder.Set("cancelled_at", at.UTC())
	case domain.StatusCompleted:
		updateBuilder = updateBuilder.Set("completed_at", at.UTC())
	default:
		return false, fmt.Errorf("%w: TransitionStatus - status %q is not terminal", domain.ErrInvalidInput, to)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: TransitionStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: TransitionStatus - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: TransitionStatus - get rows affected: %v", ErrExecQuery, err)
	}
	return rowsAffected == 1, nil
}

// Reschedule переносит активную бронь на новый интервал
func (r *Repository) Reschedule(ctx context.Context, id int64, start, end time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("start_at", start.UTC()).
		Set("end_at", end.UTC()).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.StatusBooked}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Reschedule - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Reschedule - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Reschedule - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrCommitmentNotFound
	}
	return nil
}

func (r *Repository) list(ctx context.Context, method string, selectBuilder squirrel.SelectBuilder) ([]*domain.Commitment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute select: %w", ErrExecQuery, method, err)
	}
	defer rows.Close()

	commitments := make([]*domain.Commitment, 0)
	for rows.Next() {
		c, err := scanCommitment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan commitment: %w", ErrScanRow, method, err)
		}
		commitments = append(commitments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - iterate rows: %w", ErrExecQuery, method, err)
	}
	return commitments, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCommitment(row rowScanner) (*domain.Commitment, error) {
	var (
		c             domain.Commitment
		patientID     sql.NullInt64
		appointmentID sql.NullInt64
		cancelledAt   sql.NullTime
		completedAt   sql.NullTime
	)

	err := row.Scan(
		&c.ID,
		&c.SubjectKind,
		&c.SubjectID,
		&patientID,
		&appointmentID,
		&c.StartAt,
		&c.EndAt,
		&c.Status,
		&cancelledAt,
		&completedAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if patientID.Valid {
		c.PatientID = &patientID.Int64
	}
	if appointmentID.Valid {
		c.AppointmentID = &appointmentID.Int64
	}
	if cancelledAt.Valid {
		c.CancelledAt = &cancelledAt.Time
	}
	if completedAt.Valid {
		c.CompletedAt = &completedAt.Time
	}
	return &c, nil
}
