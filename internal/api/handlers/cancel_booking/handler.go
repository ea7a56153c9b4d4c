package cancel_booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
	cancelBooking "github.com/m04kA/SMC-ClinicBooking/internal/usecase/cancel_booking"
)

const (
	msgInvalidBookingID = "некорректный ID брони"
	msgNotFound         = "бронь не найдена"
	msgAlreadyTerminal  = "бронь уже отменена или завершена"
)

// Handler отмена приема, брони кабинета или ресурса; тип брони задается маршрутом
type Handler struct {
	useCase  CancelBookingUseCase
	kind     domain.SubjectKind
	location *time.Location
	logger   Logger
}

func NewHandler(useCase CancelBookingUseCase, kind domain.SubjectKind, location *time.Location, logger Logger) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		useCase:  useCase,
		kind:     kind,
		location: location,
		logger:   logger,
	}
}

// Handle PATCH /api/v1/{appointments|room-bookings|resource-bookings}/{bookingId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /%s/{id}/cancel - Invalid booking ID: %v", h.kind, err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	kind := h.kind
	result, err := h.useCase.Execute(r.Context(), &cancelBooking.Request{
		BookingID: bookingID,
		Kind:      &kind,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBusy):
			h.logger.Warn("PATCH /%s/{id}/cancel - Busy: booking_id=%d", h.kind, bookingID)
			handlers.RespondBusy(w)

		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("PATCH /%s/{id}/cancel - Booking not found: booking_id=%d", h.kind, bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrAlreadyTerminal):
			h.logger.Warn("PATCH /%s/{id}/cancel - Already terminal: booking_id=%d", h.kind, bookingID)
			handlers.RespondDomainError(w, err, msgAlreadyTerminal)

		default:
			h.logger.Error("PATCH /%s/{id}/cancel - Failed to cancel booking: booking_id=%d, error=%v",
				h.kind, bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /%s/{id}/cancel - Booking cancelled successfully: booking_id=%d, cancelled=%d",
		h.kind, bookingID, len(result.Cancelled))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result, h.location))
}
