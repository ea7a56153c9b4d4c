package reschedule_appointment

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
)

const (
	msgInvalidAppointmentID = "некорректный ID приема"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidStartAt       = "некорректное время начала, ожидается RFC 3339"
	msgNotFound             = "прием не найден"
	msgAlreadyTerminal      = "прием уже отменен или завершен"
	msgInactive             = "врач неактивен"
	msgNoScheduleForDay     = "у врача нет расписания на этот день"
	msgMisalignedSlot       = "время не совпадает со свободным слотом расписания"
	msgDoubleBooked         = "новое время уже занято"
	msgCapacityExceeded     = "нет свободных единиц ресурса на новое время"
)

type Handler struct {
	useCase  RescheduleAppointmentUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase RescheduleAppointmentUseCase, location *time.Location, logger Logger) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := handlers.PathID(r, "appointmentId")
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req RescheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(appointmentID)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartAt)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBusy):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Busy: appointment_id=%d", appointmentID)
			handlers.RespondBusy(w)

		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrAlreadyTerminal):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Already terminal: appointment_id=%d", appointmentID)
			handlers.RespondDomainError(w, err, msgAlreadyTerminal)

		case errors.Is(err, domain.ErrInactive):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Inactive doctor: appointment_id=%d", appointmentID)
			handlers.RespondDomainError(w, err, msgInactive)

		case errors.Is(err, domain.ErrNoScheduleForDay):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - No schedule: appointment_id=%d, start_at=%s", appointmentID, req.StartAt)
			handlers.RespondDomainError(w, err, msgNoScheduleForDay)

		case errors.Is(err, domain.ErrMisalignedSlot):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Misaligned slot: appointment_id=%d, start_at=%s", appointmentID, req.StartAt)
			handlers.RespondDomainError(w, err, msgMisalignedSlot)

		case errors.Is(err, domain.ErrDoubleBooked):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Double booked: appointment_id=%d, start_at=%s", appointmentID, req.StartAt)
			handlers.RespondDomainError(w, err, msgDoubleBooked)

		case errors.Is(err, domain.ErrCapacityExceeded):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Capacity exceeded: appointment_id=%d", appointmentID)
			handlers.RespondDomainError(w, err, msgCapacityExceeded)

		default:
			h.logger.Error("PATCH /appointments/{id}/reschedule - Failed to reschedule: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id}/reschedule - Appointment rescheduled successfully: appointment_id=%d, start_at=%s",
		appointmentID, req.StartAt)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result, h.location))
}
