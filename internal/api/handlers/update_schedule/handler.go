package update_schedule

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
	"github.com/m04kA/SMC-ClinicBooking/internal/service/schedules"
	"github.com/m04kA/SMC-ClinicBooking/internal/service/schedules/models"
)

const (
	msgInvalidScheduleID  = "некорректный ID расписания"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidSchedule    = "некорректный шаблон расписания"
	msgNotFound           = "расписание не найдено"
	msgAlreadyExists      = "у врача уже есть расписание на этот день недели"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/doctor-schedules/{scheduleId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := handlers.PathID(r, "scheduleId")
	if err != nil {
		h.logger.Warn("PUT /doctor-schedules/{id} - Invalid schedule ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidScheduleID)
		return
	}

	var req models.UpdateScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /doctor-schedules/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), scheduleID, &req)
	if err != nil {
		switch {
		case errors.Is(err, schedules.ErrScheduleNotFound):
			h.logger.Warn("PUT /doctor-schedules/{id} - Schedule not found: schedule_id=%d", scheduleID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, schedules.ErrScheduleAlreadyExists):
			h.logger.Warn("PUT /doctor-schedules/{id} - Day already taken: schedule_id=%d", scheduleID)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyExists)

		case errors.Is(err, domain.ErrInvalidRange), errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("PUT /doctor-schedules/{id} - Invalid schedule: schedule_id=%d: %v", scheduleID, err)
			handlers.RespondDomainError(w, err, msgInvalidSchedule)

		default:
			h.logger.Error("PUT /doctor-schedules/{id} - Failed to update schedule: schedule_id=%d, error=%v", scheduleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /doctor-schedules/{id} - Schedule updated successfully: schedule_id=%d", scheduleID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
