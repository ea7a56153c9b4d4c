package check_availability

import (
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
)

// Request модель запроса проверки доступности
type Request struct {
	Kind      domain.SubjectKind
	SubjectID int64
	StartAt   time.Time
	EndAt     time.Time
}

// Response модель ответа
type Response struct {
	Available bool
	Reason    string // Код причины недоступности (inactive, double_booked, capacity_exceeded), пусто если доступно
}
