package book_room

import (
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/api/handlers"
	bookingModels "github.com/m04kA/SMC-ClinicBooking/internal/service/bookings/models"
	bookRoom "github.com/m04kA/SMC-ClinicBooking/internal/usecase/book_room"
)

// BookRoomRequest HTTP request model
type BookRoomRequest struct {
	RoomID        int64  `json:"roomId" validate:"required,gt=0"`
	StartAt       string `json:"startAt" validate:"required"` // RFC 3339
	EndAt         string `json:"endAt" validate:"required"`
	AppointmentID *int64 `json:"appointmentId,omitempty" validate:"omitempty,gt=0"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *BookRoomRequest) ToUseCaseRequest() (*bookRoom.Request, error) {
	startAt, err := handlers.ParseDateTime(r.StartAt)
	if err != nil {
		return nil, err
	}
	endAt, err := handlers.ParseDateTime(r.EndAt)
	if err != nil {
		return nil, err
	}
	return &bookRoom.Request{
		RoomID:        r.RoomID,
		StartAt:       startAt,
		EndAt:         endAt,
		AppointmentID: r.AppointmentID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *bookRoom.Response, loc *time.Location) *bookingModels.BookingResponse {
	return bookingModels.FromDomainCommitment(resp.Booking, loc)
}
