package schedules

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
)

var (
	// ErrScheduleNotFound возвращается, когда шаблон расписания не найден
	ErrScheduleNotFound = fmt.Errorf("schedule: %w", domain.ErrNotFound)

	// ErrDoctorNotFound возвращается, когда врач не найден
	ErrDoctorNotFound = fmt.Errorf("doctor: %w", domain.ErrNotFound)

	// ErrScheduleAlreadyExists у врача уже есть шаблон на этот день недели
	ErrScheduleAlreadyExists = errors.New("schedule for this doctor and day already exists")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("schedules: internal error")
)
