package book_resource

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректное время, ожидается RFC 3339"
	msgInvalidRange       = "конец брони должен быть позже начала"
	msgNotFound           = "ресурс или прием не найден"
	msgAlreadyTerminal    = "прием уже отменен или завершен"
	msgDoubleBooked       = "ресурс уже занят в это время"
	msgCapacityExceeded   = "нет свободных единиц ресурса"
)

type Handler struct {
	useCase  BookResourceUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase BookResourceUseCase, location *time.Location, logger Logger) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle POST /api/v1/resource-bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req BookResourceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /resource-bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /resource-bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBusy):
			h.logger.Warn("POST /resource-bookings - Busy: resource_id=%d", req.ResourceID)
			handlers.RespondBusy(w)

		case errors.Is(err, domain.ErrInvalidRange):
			h.logger.Warn("POST /resource-bookings - Invalid range: resource_id=%d, start_at=%s, end_at=%s",
				req.ResourceID, req.StartAt, req.EndAt)
			handlers.RespondDomainError(w, err, msgInvalidRange)

		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("POST /resource-bookings - Not found: resource_id=%d: %v", req.ResourceID, err)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrAlreadyTerminal):
			h.logger.Warn("POST /resource-bookings - Appointment is terminal: resource_id=%d", req.ResourceID)
			handlers.RespondDomainError(w, err, msgAlreadyTerminal)

		case errors.Is(err, domain.ErrDoubleBooked):
			h.logger.Warn("POST /resource-bookings - Double booked: resource_id=%d, start_at=%s", req.ResourceID, req.StartAt)
			handlers.RespondDomainError(w, err, msgDoubleBooked)

		case errors.Is(err, domain.ErrCapacityExceeded):
			h.logger.Warn("POST /resource-bookings - Capacity exceeded: resource_id=%d, start_at=%s", req.ResourceID, req.StartAt)
			handlers.RespondDomainError(w, err, msgCapacityExceeded)

		default:
			h.logger.Error("POST /resource-bookings - Failed to book resource: resource_id=%d, error=%v", req.ResourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /resource-bookings - Resource booked successfully: booking_id=%d, resource_id=%d, remaining=%d",
		result.Booking.ID, req.ResourceID, result.RemainingQuantity)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result, h.location))
}
