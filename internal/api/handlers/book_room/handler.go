package book_room

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
	msgNotFound           = "кабинет или прием не найден"
	msgAlreadyTerminal    = "прием уже отменен или завершен"
	msgDoubleBooked       = "кабинет уже занят в это время"
)

type Handler struct {
	useCase  BookRoomUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase BookRoomUseCase, location *time.Location, logger Logger) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle POST /api/v1/room-bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req BookRoomRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /room-bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /room-bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBusy):
			h.logger.Warn("POST /room-bookings - Busy: room_id=%d", req.RoomID)
			handlers.RespondBusy(w)

		case errors.Is(err, domain.ErrInvalidRange):
			h.logger.Warn("POST /room-bookings - Invalid range: room_id=%d, start_at=%s, end_at=%s", req.RoomID, req.StartAt, req.EndAt)
			handlers.RespondDomainError(w, err, msgInvalidRange)

		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("POST /room-bookings - Not found: room_id=%d: %v", req.RoomID, err)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrAlreadyTerminal):
			h.logger.Warn("POST /room-bookings - Appointment is terminal: room_id=%d", req.RoomID)
			handlers.RespondDomainError(w, err, msgAlreadyTerminal)

		case errors.Is(err, domain.ErrDoubleBooked):
			h.logger.Warn("POST /room-bookings - Double booked: room_id=%d, start_at=%s", req.RoomID, req.StartAt)
			handlers.RespondDomainError(w, err, msgDoubleBooked)

		default:
			h.logger.Error("POST /room-bookings - Failed to book room: room_id=%d, error=%v", req.RoomID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /room-bookings - Room booked successfully: booking_id=%d, room_id=%d",
		result.Booking.ID, req.RoomID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result, h.location))
}
