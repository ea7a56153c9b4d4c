package delete_schedule

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBooking/internal/service/schedules"
)

const (
	msgInvalidScheduleID = "некорректный ID расписания"
	msgNotFound          = "расписание не найдено"
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

// Handle DELETE /api/v1/doctor-schedules/{scheduleId}
// Существующие приемы остаются в силе
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := handlers.PathID(r, "scheduleId")
	if err != nil {
		h.logger.Warn("DELETE /doctor-schedules/{id} - Invalid schedule ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidScheduleID)
		return
	}

	if err := h.service.Delete(r.Context(), scheduleID); err != nil {
		if errors.Is(err, schedules.ErrScheduleNotFound) {
			h.logger.Warn("DELETE /doctor-schedules/{id} - Schedule not found: schedule_id=%d", scheduleID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("DELETE /doctor-schedules/{id} - Failed to delete schedule: schedule_id=%d, error=%v", scheduleID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /doctor-schedules/{id} - Schedule deleted: schedule_id=%d", scheduleID)
	w.WriteHeader(http.StatusNoContent)
}
