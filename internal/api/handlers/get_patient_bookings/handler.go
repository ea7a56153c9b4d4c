package get_patient_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
)

const (
	msgInvalidPatientID = "некорректный ID пациента"
	msgNotFound         = "пациент не найден"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/patients/{patientId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	patientID, err := handlers.PathID(r, "patientId")
	if err != nil {
		h.logger.Warn("GET /patients/{id}/bookings - Invalid patient ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPatientID)
		return
	}

	result, err := h.service.ListByPatient(r.Context(), patientID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("GET /patients/{id}/bookings - Patient not found: patient_id=%d", patientID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /patients/{id}/bookings - Failed to get bookings: patient_id=%d, error=%v",
				patientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /patients/{id}/bookings - Bookings retrieved successfully: patient_id=%d, count=%d",
		patientID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result.Bookings)
}
