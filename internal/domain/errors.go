package domain

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ClinicBooking/pkg/txmanager"
)

// Ошибки арбитра бронирований. Слои выше оборачивают их через %w и проверяют errors.Is
var (
	// ErrNotFound субъект (врач, пациент, кабинет, ресурс) или бронь не найдены
	ErrNotFound = errors.New("not found")

	// ErrInactive врач или пациент отключены
	ErrInactive = errors.New("subject is inactive")

	// ErrInvalidRange конец интервала не позже начала или некорректный шаблон расписания
	ErrInvalidRange = errors.New("invalid time range")

	// ErrInvalidInput некорректные входные данные запроса
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoScheduleForDay у врача нет расписания на этот день недели
	ErrNoScheduleForDay = errors.New("no schedule for day")

	// ErrMisalignedSlot время приема не совпадает с сеткой слотов
	ErrMisalignedSlot = errors.New("time is not aligned to the slot grid")

	// ErrSlotInPast слот не в будущем
	ErrSlotInPast = fmt.Errorf("%w: slot start is not in the future", ErrMisalignedSlot)

	// ErrDoubleBooked интервал пересекается с активной бронью
	ErrDoubleBooked = errors.New("interval overlaps an active booking")

	// ErrCapacityExceeded свободных единиц ресурса не осталось
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrAlreadyTerminal бронь уже отменена или завершена
	ErrAlreadyTerminal = errors.New("booking is already terminal")

	// ErrBusy не удалось получить блокировку за отведенное время; единственная ошибка, которую можно повторить
	ErrBusy = txmanager.ErrBusy
)

// Коды ошибок для API и метрик
const (
	CodeGranted          = "granted"
	CodeNotFound         = "not_found"
	CodeInactive         = "inactive"
	CodeInvalidRange     = "invalid_range"
	CodeInvalidInput     = "invalid_input"
	CodeNoScheduleForDay = "no_schedule_for_day"
	CodeMisalignedSlot   = "misaligned_slot"
	CodeDoubleBooked     = "double_booked"
	CodeCapacityExceeded = "capacity_exceeded"
	CodeAlreadyTerminal  = "already_terminal"
	CodeBusy             = "busy"
	CodeInternal         = "internal"
)

// ErrorCode возвращает код категории ошибки; для nil возвращает CodeGranted
// ErrBusy проверяется первым: ошибка конкуренции может быть обернута вместе с внутренней
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return CodeGranted
	case errors.Is(err, ErrBusy):
		return CodeBusy
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInactive):
		return CodeInactive
	case errors.Is(err, ErrInvalidRange):
		return CodeInvalidRange
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, ErrNoScheduleForDay):
		return CodeNoScheduleForDay
	case errors.Is(err, ErrMisalignedSlot):
		return CodeMisalignedSlot
	case errors.Is(err, ErrDoubleBooked):
		return CodeDoubleBooked
	case errors.Is(err, ErrCapacityExceeded):
		return CodeCapacityExceeded
	case errors.Is(err, ErrAlreadyTerminal):
		return CodeAlreadyTerminal
	default:
		return CodeInternal
	}
}
