package memory

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
	capacityRepo "github.com/m04kA/SMC-ClinicBooking/internal/infra/storage/capacity"
)

// CapacityRepository кабинеты и ресурсы в памяти
type CapacityRepository struct {
	store *Store
}

// Capacity возвращает репозиторий держателей емкости
func (s *Store) Capacity() *CapacityRepository {
	return &CapacityRepository{store: s}
}

func (r *CapacityRepository) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	rooms, err := r.LockRooms(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	return rooms[0], nil
}

func (r *CapacityRepository) LockRooms(ctx context.Context, ids []int64) ([]*domain.Room, error) {
	rooms := make([]*domain.Room, 0, len(ids))
	err := r.store.run(ctx, func() error {
		for _, id := range ids {
			room, ok := r.store.rooms[id]
			if !ok {
				return fmt.Errorf("%w: id=%d", capacityRepo.ErrRoomNotFound, id)
			}
			rooms = append(rooms, &room)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *CapacityRepository) SetRoomAvailable(ctx context.Context, id int64, available bool) error {
	return r.store.run(ctx, func() error {
		room, ok := r.store.rooms[id]
		if !ok {
			return capacityRepo.ErrRoomNotFound
		}
		room.Available = available
		r.store.rooms[id] = room
		return nil
	})
}

func (r *CapacityRepository) GetResource(ctx context.Context, id int64) (*domain.Resource, error) {
	resources, err := r.LockResources(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	return resources[0], nil
}

func (r *CapacityRepository) LockResources(ctx context.Context, ids []int64) ([]*domain.Resource, error) {
	resources := make([]*domain.Resource, 0, len(ids))
	err := r.store.run(ctx, func() error {
		for _, id := range ids {
			res, ok := r.store.resources[id]
			if !ok {
				return fmt.Errorf("%w: id=%d", capacityRepo.ErrResourceNotFound, id)
			}
			resources = append(resources, &res)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resources, nil
}

func (r *CapacityRepository) AdjustResourceQuantity(ctx context.Context, id int64, delta int) (*domain.Resource, error) {
	var adjusted domain.Resource
	err := r.store.run(ctx, func() error {
		res, ok := r.store.resources[id]
		if !ok {
			return capacityRepo.ErrResourceNotFound
		}
		next := res.Quantity + delta
		if next < 0 || next > res.TotalQuantity {
			return fmt.Errorf("%w: resource id=%d delta=%d", capacityRepo.ErrQuantityOutOfRange, id, delta)
		}
		res.Quantity = next
		r.store.resources[id] = res
		adjusted = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &adjusted, nil
}
