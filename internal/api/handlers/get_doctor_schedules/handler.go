package get_doctor_schedules

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBooking/internal/service/schedules"
)

const (
	msgInvalidDoctorID = "некорректный ID врача"
	msgDoctorNotFound  = "врач не найден"
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

// Handle GET /api/v1/doctors/{doctorId}/schedules
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	doctorID, err := handlers.PathID(r, "doctorId")
	if err != nil {
		h.logger.Warn("GET /doctors/{id}/schedules - Invalid doctor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	result, err := h.service.ListByDoctor(r.Context(), doctorID)
	if err != nil {
		if errors.Is(err, schedules.ErrDoctorNotFound) {
			h.logger.Warn("GET /doctors/{id}/schedules - Doctor not found: doctor_id=%d", doctorID)
			handlers.RespondNotFound(w, msgDoctorNotFound)
			return
		}
		h.logger.Error("GET /doctors/{id}/schedules - Failed to list schedules: doctor_id=%d, error=%v", doctorID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
