package domain

import (
	"fmt"
	"sort"
)

// LockPlan набор держателей емкости, которые транзакция блокирует.
// Порядок захвата фиксирован: врач, кабинеты по возрастанию id, ресурсы по возрастанию id.
// Строки броней блокируются раньше держателей.
type LockPlan struct {
	DoctorID    *int64
	RoomIDs     []int64
	ResourceIDs []int64
}

// SortedUniqueIDs возвращает id по возрастанию; неположительные id и дубликаты - ошибка
func SortedUniqueIDs(ids []int64) ([]int64, error) {
	sorted := make([]int64, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	for i := range sorted {
		if sorted[i] <= 0 {
			return nil, fmt.Errorf("%w: id must be positive", ErrInvalidInput)
		}
		if i > 0 && sorted[i] == sorted[i-1] {
			return nil, fmt.Errorf("%w: duplicate id %d", ErrInvalidInput, sorted[i])
		}
	}
	return sorted, nil
}

// LockPlanFor строит план блокировок для набора броней (например, прием и его дочерние брони)
func LockPlanFor(commitments ...*Commitment) LockPlan {
	var plan LockPlan
	rooms := make(map[int64]bool)
	resources := make(map[int64]bool)
	for _, c := range commitments {
		switch c.SubjectKind {
		case SubjectDoctor:
			id := c.SubjectID
			plan.DoctorID = &id
		case SubjectRoom:
			if !rooms[c.SubjectID] {
				rooms[c.SubjectID] = true
				plan.RoomIDs = append(plan.RoomIDs, c.SubjectID)
			}
		case SubjectResource:
			if !resources[c.SubjectID] {
				resources[c.SubjectID] = true
				plan.ResourceIDs = append(plan.ResourceIDs, c.SubjectID)
			}
		}
	}
	sort.Slice(plan.RoomIDs, func(i, j int) bool { return plan.RoomIDs[i] < plan.RoomIDs[j] })
	sort.Slice(plan.ResourceIDs, func(i, j int) bool { return plan.ResourceIDs[i] < plan.ResourceIDs[j] })
	return plan
}
