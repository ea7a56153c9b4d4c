package book_resource

import (
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/api/handlers"
	bookingModels "github.com/m04kA/SMC-ClinicBooking/internal/service/bookings/models"
	bookResource "github.com/m04kA/SMC-ClinicBooking/internal/usecase/book_resource"
)

// BookResourceRequest HTTP request model
type BookResourceRequest struct {
	ResourceID    int64  `json:"resourceId" validate:"required,gt=0"`
	StartAt       string `json:"startAt" validate:"required"` // RFC 3339
	EndAt         string `json:"endAt" validate:"required"`
	AppointmentID *int64 `json:"appointmentId,omitempty" validate:"omitempty,gt=0"`
}

// ResourceBookingResponse HTTP response model
type ResourceBookingResponse struct {
	Booking           *bookingModels.BookingResponse `json:"booking"`
	RemainingQuantity int                            `json:"remainingQuantity"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *BookResourceRequest) ToUseCaseRequest() (*bookResource.Request, error) {
	startAt, err := handlers.ParseDateTime(r.StartAt)
	if err != nil {
		return nil, err
	}
	endAt, err := handlers.ParseDateTime(r.EndAt)
	if err != nil {
		return nil, err
	}
	return &bookResource.Request{
		ResourceID:    r.ResourceID,
		StartAt:       startAt,
		EndAt:         endAt,
		AppointmentID: r.AppointmentID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *bookResource.Response, loc *time.Location) *ResourceBookingResponse {
	return &ResourceBookingResponse{
		Booking:           bookingModels.FromDomainCommitment(resp.Booking, loc),
		RemainingQuantity: resp.RemainingQuantity,
	}
}
