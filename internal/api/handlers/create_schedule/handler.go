package create_schedule

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
	"github.com/m04kA/SMC-ClinicBooking/internal/service/schedules"
	"github.com/m04kA/SMC-ClinicBooking/internal/service/schedules/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidSchedule    = "некорректный шаблон расписания"
	msgDoctorNotFound     = "врач не найден"
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

// Handle POST /api/v1/doctor-schedules
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /doctor-schedules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, schedules.ErrDoctorNotFound):
			h.logger.Warn("POST /doctor-schedules - Doctor not found: doctor_id=%d", req.DoctorID)
			handlers.RespondNotFound(w, msgDoctorNotFound)

		case errors.Is(err, schedules.ErrScheduleAlreadyExists):
			h.logger.Warn("POST /doctor-schedules - Already exists: doctor_id=%d, day=%s", req.DoctorID, req.DayOfWeek)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyExists)

		case errors.Is(err, domain.ErrInvalidRange), errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("POST /doctor-schedules - Invalid schedule: %v", err)
			handlers.RespondDomainError(w, err, msgInvalidSchedule)

		default:
			h.logger.Error("POST /doctor-schedules - Failed to create schedule: doctor_id=%d, error=%v", req.DoctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /doctor-schedules - Schedule created successfully: schedule_id=%d, doctor_id=%d",
		result.ID, req.DoctorID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
