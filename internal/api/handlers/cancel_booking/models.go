package cancel_booking

import (
	"time"

	bookingModels "github.com/m04kA/SMC-ClinicBooking/internal/service/bookings/models"
	cancelBooking "github.com/m04kA/SMC-ClinicBooking/internal/usecase/cancel_booking"
)

// CancelResponse HTTP response model
type CancelResponse struct {
	Cancelled []bookingModels.BookingResponse `json:"cancelled"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelBooking.Response, loc *time.Location) *CancelResponse {
	return &CancelResponse{
		Cancelled: bookingModels.FromDomainCommitmentList(resp.Cancelled, loc).Bookings,
	}
}
