package memory

import (
	"context"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
)

// Seed справочные данные для запуска без PostgreSQL
type Seed struct {
	Doctors []struct {
		ID             int64  `toml:"id"`
		FullName       string `toml:"full_name"`
		Specialization string `toml:"specialization"`
		Active         bool   `toml:"active"`
	} `toml:"doctors"`
	Patients []struct {
		ID       int64  `toml:"id"`
		FullName string `toml:"full_name"`
		Active   bool   `toml:"active"`
	} `toml:"patients"`
	Rooms []struct {
		ID         int64  `toml:"id"`
		RoomNumber string `toml:"room_number"`
		RoomType   string `toml:"room_type"`
	} `toml:"rooms"`
	Resources []struct {
		ID       int64  `toml:"id"`
		Name     string `toml:"name"`
		Quantity int    `toml:"quantity"`
	} `toml:"resources"`
}

// LoadSeed читает TOML-файл со справочниками и наполняет хранилище
func (s *Store) LoadSeed(ctx context.Context, path string) error {
	var seed Seed
	if _, err := toml.DecodeFile(path, &seed); err != nil {
		return fmt.Errorf("memory: decode seed %s: %w", path, err)
	}

	return s.DoSerializable(ctx, func(txCtx context.Context) error {
		for _, d := range seed.Doctors {
			if err := s.PutDoctor(txCtx, domain.Doctor{ID: d.ID, FullName: d.FullName, Specialization: d.Specialization, Active: d.Active}); err != nil {
				return err
			}
		}
		for _, p := range seed.Patients {
			if err := s.PutPatient(txCtx, domain.Patient{ID: p.ID, FullName: p.FullName, Active: p.Active}); err != nil {
				return err
			}
		}
		for _, r := range seed.Rooms {
			if err := s.PutRoom(txCtx, domain.Room{ID: r.ID, RoomNumber: r.RoomNumber, RoomType: r.RoomType, Available: true}); err != nil {
				return err
			}
		}
		for _, r := range seed.Resources {
			if r.Quantity < 0 {
				return fmt.Errorf("memory: resource %d has negative quantity", r.ID)
			}
			if err := s.PutResource(txCtx, domain.Resource{ID: r.ID, Name: r.Name, Quantity: r.Quantity, TotalQuantity: r.Quantity}); err != nil {
				return err
			}
		}
		return nil
	})
}
