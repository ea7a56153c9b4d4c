package cancel_booking

import (
	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
)

// Request модель запроса на отмену брони
type Request struct {
	BookingID int64               // ID брони
	Kind      *domain.SubjectKind // Ожидаемый тип брони; бронь другого типа считается ненайденной
}

// Response модель ответа с отмененными бронями
type Response struct {
	Cancelled []*domain.Commitment // Сама бронь и каскадно отмененные дочерние брони
}
