package reschedule_appointment

import (
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/api/handlers"
	bookingModels "github.com/m04kA/SMC-ClinicBooking/internal/service/bookings/models"
	rescheduleAppointment "github.com/m04kA/SMC-ClinicBooking/internal/usecase/reschedule_appointment"
)

// RescheduleRequest HTTP request model
type RescheduleRequest struct {
	StartAt string `json:"startAt" validate:"required"` // RFC 3339
}

// RescheduleResponse HTTP response model
type RescheduleResponse struct {
	Appointment *bookingModels.BookingResponse  `json:"appointment"`
	Children    []bookingModels.BookingResponse `json:"children"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleRequest) ToUseCaseRequest(appointmentID int64) (*rescheduleAppointment.Request, error) {
	startAt, err := handlers.ParseDateTime(r.StartAt)
	if err != nil {
		return nil, err
	}
	return &rescheduleAppointment.Request{
		AppointmentID: appointmentID,
		StartAt:       startAt,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleAppointment.Response, loc *time.Location) *RescheduleResponse {
	return &RescheduleResponse{
		Appointment: bookingModels.FromDomainCommitment(resp.Appointment, loc),
		Children:    bookingModels.FromDomainCommitmentList(resp.Children, loc).Bookings,
	}
}
