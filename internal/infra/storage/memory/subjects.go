package memory

import (
	"context"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
	subjectRepo "github.com/m04kA/SMC-ClinicBooking/internal/infra/storage/subject"
)

// SubjectRepository врачи и пациенты в памяти
type SubjectRepository struct {
	store *Store
}

// Subjects возвращает репозиторий врачей и пациентов
func (s *Store) Subjects() *SubjectRepository {
	return &SubjectRepository{store: s}
}

func (r *SubjectRepository) GetDoctor(ctx context.Context, id int64) (*domain.Doctor, error) {
	var found domain.Doctor
	err := r.store.run(ctx, func() error {
		d, ok := r.store.doctors[id]
		if !ok {
			return subjectRepo.ErrDoctorNotFound
		}
		found = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *SubjectRepository) GetPatient(ctx context.Context, id int64) (*domain.Patient, error) {
	var found domain.Patient
	err := r.store.run(ctx, func() error {
		p, ok := r.store.patients[id]
		if !ok {
			return subjectRepo.ErrPatientNotFound
		}
		found = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}
