package bookings

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронь не найдена
	ErrBookingNotFound = fmt.Errorf("booking: %w", domain.ErrNotFound)

	// ErrSubjectNotFound возвращается, когда врач, кабинет, ресурс или пациент не найдены
	ErrSubjectNotFound = fmt.Errorf("subject: %w", domain.ErrNotFound)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings: internal error")
)
