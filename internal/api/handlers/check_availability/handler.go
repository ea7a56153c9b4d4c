package check_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
)

const (
	msgInvalidParams = "некорректные параметры: ожидаются kind, id, start и end (RFC 3339)"
	msgInvalidRange  = "конец интервала должен быть позже начала"
	msgNotFound      = "субъект не найден"
)

type Handler struct {
	useCase CheckAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase CheckAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability
// Query params: kind (doctor|room|resource), id, start, end (RFC 3339)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	useCaseReq, err := ToUseCaseRequest(query)
	if err != nil {
		h.logger.Warn("GET /availability - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBusy):
			h.logger.Warn("GET /availability - Busy: kind=%s, id=%d", useCaseReq.Kind, useCaseReq.SubjectID)
			handlers.RespondBusy(w)

		case errors.Is(err, domain.ErrInvalidRange):
			h.logger.Warn("GET /availability - Invalid range: start=%s, end=%s", query.Get("start"), query.Get("end"))
			handlers.RespondDomainError(w, err, msgInvalidRange)

		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("GET /availability - Subject not found: kind=%s, id=%d", useCaseReq.Kind, useCaseReq.SubjectID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /availability - Failed to check availability: kind=%s, id=%d, error=%v",
				useCaseReq.Kind, useCaseReq.SubjectID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /availability - kind=%s, id=%d, available=%t, reason=%s",
		useCaseReq.Kind, useCaseReq.SubjectID, result.Available, result.Reason)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(useCaseReq, result, query))
}
