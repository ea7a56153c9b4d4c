package capacity

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

const (
	roomsTable     = "rooms"
	resourcesTable = "resources"
)

// Repository репозиторий держателей емкости: кабинетов и ресурсов
// Писать в эти таблицы могут только арбитр и реконсилер
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetRoom получает кабинет; внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	rooms, err := r.lockRooms(ctx, "GetRoom", []int64{id})
	if err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return nil, ErrRoomNotFound
	}
	return rooms[0], nil
}

// LockRooms получает кабинеты по возрастанию id, внутри транзакции блокируя строки в этом же порядке
// Если хотя бы одного кабинета нет, возвращает ErrRoomNotFound
func (r *Repository) LockRooms(ctx context.Context, ids []int64) ([]*domain.Room, error) {
	rooms, err := r.lockRooms(ctx, "LockRooms", ids)
	if err != nil {
		return nil, err
	}
	if len(rooms) != len(ids) {
		return nil, fmt.Errorf("%w: requested %d, found %d", ErrRoomNotFound, len(ids), len(rooms))
	}
	return rooms, nil
}

func (r *Repository) lockRooms(ctx context.Context, method string, ids []int64) ([]*domain.Room, error) {
	if len(ids) == 0 {
		return []*domain.Room{}, nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "room_number", "room_type", "available").
		From(roomsTable).
		Where(squirrel.Eq{"id": ids}).
		OrderBy("id")
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute select: %w", ErrExecQuery, method, err)
	}
	defer rows.Close()

	rooms := make([]*domain.Room, 0, len(ids))
	for rows.Next() {
		var room domain.Room
		if err := rows.Scan(&room.ID, &room.RoomNumber, &room.RoomType, &room.Available); err != nil {
			return nil, fmt.Errorf("%w: %s - scan room: %w", ErrScanRow, method, err)
		}
		rooms = append(rooms, &room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - iterate rows: %w", ErrExecQuery, method, err)
	}
	return rooms, nil
}

// SetRoomAvailable выставляет флаг доступности кабинета
func (r *Repository) SetRoomAvailable(ctx context.Context, id int64, available bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(roomsTable).
		Set("available", available).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetRoomAvailable - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetRoomAvailable - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetRoomAvailable - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// GetResource получает ресурс; внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetResource(ctx context.Context, id int64) (*domain.Resource, error) {
	resources, err := r.lockResources(ctx, "GetResource", []int64{id})
	if err != nil {
		return nil, err
	}
	if len(resources) == 0 {
		return nil, ErrResourceNotFound
	}
	return resources[0], nil
}

// LockResources получает ресурсы по возрастанию id, внутри транзакции блокируя строки в этом же порядке
// Если хотя бы одного ресурса нет, возвращает ErrResourceNotFound
func (r *Repository) LockResources(ctx context.Context, ids []int64) ([]*domain.Resource, error) {
	resources, err := r.lockResources(ctx, "LockResources", ids)
	if err != nil {
		return nil, err
	}
	if len(resources) != len(ids) {
		return nil, fmt.Errorf("%w: requested %d, found %d", ErrResourceNotFound, len(ids), len(resources))
	}
	return resources, nil
}

func (r *Repository) lockResources(ctx context.Context, method string, ids []int64) ([]*domain.Resource, error) {
	if len(ids) == 0 {
		return []*domain.Resource{}, nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "name", "quantity", "total_quantity").
		From(resourcesTable).
		Where(squirrel.Eq{"id": ids}).
		OrderBy("id")
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute select: %w", ErrExecQuery, method, err)
	}
	defer rows.Close()

	resources := make([]*domain.Resource, 0, len(ids))
	for rows.Next() {
		var res domain.Resource
		if err := rows.Scan(&res.ID, &res.Name, &res.Quantity, &res.TotalQuantity); err != nil {
			return nil, fmt.Errorf("%w: %s - scan resource: %w", ErrScanRow, method, err)
		}
		resources = append(resources, &res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - iterate rows: %w", ErrExecQuery, method, err)
	}
	return resources, nil
}

// AdjustResourceQuantity меняет количество свободных единиц на delta
// Условие в WHERE не дает количеству выйти за [0, total_quantity]
func (r *Repository) AdjustResourceQuantity(ctx context.Context, id int64, delta int) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(resourcesTable).
		Set("quantity", squirrel.Expr("quantity + ?", delta)).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Expr("quantity + ? BETWEEN 0 AND total_quantity", delta)).
		Suffix("RETURNING id, name, quantity, total_quantity").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: AdjustResourceQuantity - build update query: %v", ErrBuildQuery, err)
	}

	var res domain.Resource
	err = executor.QueryRowContext(ctx, query, args...).Scan(&res.ID, &res.Name, &res.Quantity, &res.TotalQuantity)
	if errors.Is(err, sql.ErrNoRows) {
		if _, getErr := r.GetResource(ctx, id); errors.Is(getErr, ErrResourceNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, fmt.Errorf("%w: resource id=%d delta=%d", ErrQuantityOutOfRange, id, delta)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: AdjustResourceQuantity - execute update: %w", ErrExecQuery, err)
	}
	return &res, nil
}
