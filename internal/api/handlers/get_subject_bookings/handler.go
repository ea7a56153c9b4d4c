package get_subject_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
)

const (
	msgInvalidSubjectID = "некорректный ID"
	msgInvalidParams    = "некорректные параметры запроса"
	msgNotFound         = "субъект не найден"
)

// Handler список броней врача, кабинета или ресурса
type Handler struct {
	service BookingService
	kind    domain.SubjectKind
	logger  Logger
}

func NewHandler(service BookingService, kind domain.SubjectKind, logger Logger) *Handler {
	return &Handler{
		service: service,
		kind:    kind,
		logger:  logger,
	}
}

// Handle GET /api/v1/{doctors|rooms|resources}/{subjectId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	subjectID, err := handlers.PathID(r, "subjectId")
	if err != nil {
		h.logger.Warn("GET /%ss/{id}/bookings - Invalid ID: %v", h.kind, err)
		handlers.RespondBadRequest(w, msgInvalidSubjectID)
		return
	}

	serviceReq, err := ToServiceRequest(h.kind, subjectID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /%ss/{id}/bookings - Invalid parameters: %v", h.kind, err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.ListBySubject(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("GET /%ss/{id}/bookings - Not found: id=%d", h.kind, subjectID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrInvalidRange), errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("GET /%ss/{id}/bookings - Invalid filter: %v", h.kind, err)
			handlers.RespondDomainError(w, err, msgInvalidParams)

		default:
			h.logger.Error("GET /%ss/{id}/bookings - Failed to get bookings: id=%d, error=%v", h.kind, subjectID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /%ss/{id}/bookings - Bookings retrieved successfully: id=%d, count=%d",
		h.kind, subjectID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result.Bookings)
}
