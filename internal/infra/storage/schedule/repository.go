package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
	"github.com/m04kA/SMC-ClinicBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicBooking/pkg/psqlbuilder"
)

const (
	tableName             = "doctor_schedules"
	codeUniqueViolation   = "23505"
	uniqueDoctorDayConstr = "doctor_schedules_doctor_day_unique"
)

var columns = []string{
	"id",
	"doctor_id",
	"day_of_week",
	"start_time",
	"end_time",
	"slot_duration_minutes",
	"created_at",
	"updated_at",
}

// Repository репозиторий шаблонов расписания врачей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает шаблон расписания
// Уникальность (doctor_id, day_of_week) гарантирует ограничение таблицы
func (r *Repository) Create(ctx context.Context, t *domain.ScheduleTemplate) (*domain.ScheduleTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns("doctor_id", "day_of_week", "start_time", "end_time", "slot_duration_minutes").
		Values(t.DoctorID, t.DayOfWeek, t.StartTime, t.EndTime, t.SlotDurationMinutes).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if isDuplicateDay(err) {
			return nil, ErrScheduleAlreadyExists
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return t, nil
}

// GetByID получает шаблон по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ScheduleTemplate, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByDoctorAndDay получает шаблон врача на день недели
func (r *Repository) GetByDoctorAndDay(ctx context.Context, doctorID int64, day domain.DayOfWeek) (*domain.ScheduleTemplate, error) {
	return r.getOne(ctx, "GetByDoctorAndDay", squirrel.Eq{"doctor_id": doctorID, "day_of_week": day})
}

func (r *Repository) getOne(ctx context.Context, method string, where squirrel.Eq) (*domain.ScheduleTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	t, err := scanTemplate(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan schedule: %w", ErrScanRow, method, err)
	}
	return t, nil
}

// ListByDoctor получает все шаблоны врача, упорядоченные с понедельника по воскресенье
func (r *Repository) ListByDoctor(ctx context.Context, doctorID int64) ([]*domain.ScheduleTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"doctor_id": doctorID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDoctor - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDoctor - execute select: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	templates := make([]*domain.ScheduleTemplate, 0)
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByDoctor - scan schedule: %w", ErrScanRow, err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByDoctor - iterate rows: %w", ErrExecQuery, err)
	}

	sort.Slice(templates, func(i, j int) bool {
		return templates[i].DayOfWeek.Index() < templates[j].DayOfWeek.Index()
	})
	return templates, nil
}

// Update заменяет шаблон целиком
func (r *Repository) Update(ctx context.Context, t *domain.ScheduleTemplate) (*domain.ScheduleTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("doctor_id", t.DoctorID).
		Set("day_of_week", t.DayOfWeek).
		Set("start_time", t.StartTime).
		Set("end_time", t.EndTime).
		Set("slot_duration_minutes", t.SlotDurationMinutes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": t.ID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		if isDuplicateDay(err) {
			return nil, ErrScheduleAlreadyExists
		}
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}
	return t, nil
}

// Delete удаляет шаблон
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTemplate(row rowScanner) (*domain.ScheduleTemplate, error) {
	var t domain.ScheduleTemplate
	err := row.Scan(
		&t.ID,
		&t.DoctorID,
		&t.DayOfWeek,
		&t.StartTime,
		&t.EndTime,
		&t.SlotDurationMinutes,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func isDuplicateDay(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) &&
		string(pqErr.Code) == codeUniqueViolation &&
		pqErr.Constraint == uniqueDoctorDayConstr
}
