package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/api/handlers"
	bookingModels "github.com/m04kA/SMC-ClinicBooking/internal/service/bookings/models"
	createAppointment "github.com/m04kA/SMC-ClinicBooking/internal/usecase/create_appointment"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	DoctorID    int64   `json:"doctorId" validate:"required,gt=0"`
	PatientID   int64   `json:"patientId" validate:"required,gt=0"`
	StartAt     string  `json:"startAt" validate:"required"` // RFC 3339
	RoomID      *int64  `json:"roomId,omitempty" validate:"omitempty,gt=0"`
	ResourceIDs []int64 `json:"resourceIds,omitempty" validate:"omitempty,max=20,dive,gt=0"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	Appointment      *bookingModels.BookingResponse  `json:"appointment"`
	RoomBooking      *bookingModels.BookingResponse  `json:"roomBooking,omitempty"`
	ResourceBookings []bookingModels.BookingResponse `json:"resourceBookings"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest() (*createAppointment.Request, error) {
	startAt, err := handlers.ParseDateTime(r.StartAt)
	if err != nil {
		return nil, err
	}

	return &createAppointment.Request{
		DoctorID:    r.DoctorID,
		PatientID:   r.PatientID,
		StartAt:     startAt,
		RoomID:      r.RoomID,
		ResourceIDs: r.ResourceIDs,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response, loc *time.Location) *AppointmentResponse {
	return &AppointmentResponse{
		Appointment:      bookingModels.FromDomainCommitment(resp.Appointment, loc),
		RoomBooking:      bookingModels.FromDomainCommitment(resp.RoomBooking, loc),
		ResourceBookings: bookingModels.FromDomainCommitmentList(resp.ResourceBookings, loc).Bookings,
	}
}
