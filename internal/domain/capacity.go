package domain

import "fmt"

// Room кабинет с бинарной емкостью
// Available = false, пока у кабинета есть активные брони
type Room struct {
	ID         int64
	RoomNumber string
	RoomType   string
	Available  bool
}

// Resource расходуемый ресурс с конечным количеством единиц
// Quantity свободные единицы, TotalQuantity общее количество; Quantity + активные брони == TotalQuantity
type Resource struct {
	ID            int64
	Name          string
	Quantity      int
	TotalQuantity int
}

// HasFreeUnits returns true if at least one unit can be granted
func (r *Resource) HasFreeUnits() bool {
	return r.Quantity > 0
}

// ResourcePolicy политика проверки пересечений для ресурсов
type ResourcePolicy string

const (
	// PolicyStrict каждая одновременная бронь занимает единицу; отказ, когда пересечений >= TotalQuantity
	PolicyStrict ResourcePolicy = "strict"

	// PolicyExclusive ресурс эксклюзивен независимо от количества: любое пересечение - отказ
	PolicyExclusive ResourcePolicy = "exclusive"
)

// ParseResourcePolicy разбирает политику; пустая строка - strict
func ParseResourcePolicy(s string) (ResourcePolicy, error) {
	switch p := ResourcePolicy(s); p {
	case "":
		return PolicyStrict, nil
	case PolicyStrict, PolicyExclusive:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown resource policy %q", ErrInvalidInput, s)
	}
}
