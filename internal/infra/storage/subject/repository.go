package subject

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
	"github.com/m04kA/SMC-ClinicBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicBooking/pkg/psqlbuilder"
)

// Repository чтение врачей и пациентов. Их регистрация вне этого сервиса
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetDoctor получает врача
// Внутри транзакции строка врача блокируется: это сериализует брони одного врача
func (r *Repository) GetDoctor(ctx context.Context, id int64) (*domain.Doctor, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "full_name", "specialization", "active").
		From("doctors").
		Where(squirrel.Eq{"id": id})
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetDoctor - build select query: %v", ErrBuildQuery, err)
	}

	var doctor domain.Doctor
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&doctor.ID,
		&doctor.FullName,
		&doctor.Specialization,
		&doctor.Active,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDoctorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetDoctor - scan doctor: %w", ErrScanRow, err)
	}
	return &doctor, nil
}

// GetPatient получает пациента (без блокировки)
func (r *Repository) GetPatient(ctx context.Context, id int64) (*domain.Patient, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "full_name", "active").
		From("patients").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetPatient - build select query: %v", ErrBuildQuery, err)
	}

	var patient domain.Patient
	err = executor.QueryRowContext(ctx, query, args...).Scan(&patient.ID, &patient.FullName, &patient.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetPatient - scan patient: %w", ErrScanRow, err)
	}
	return &patient, nil
}
