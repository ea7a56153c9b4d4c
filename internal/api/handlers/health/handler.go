package health

import (
	"context"
	"net/http"
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/api/handlers"
)

const pingTimeout = 2 * time.Second

// Pinger проверка доступности хранилища
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Logger interface {
	Warn(format string, v ...interface{})
}

// StatusResponse HTTP response model
type StatusResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

type Handler struct {
	pinger  Pinger
	storage string
	logger  Logger
}

// NewHandler pinger может быть nil для хранилища в памяти
func NewHandler(pinger Pinger, storage string, logger Logger) *Handler {
	return &Handler{
		pinger:  pinger,
		storage: storage,
		logger:  logger,
	}
}

// Handle GET /health
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		if err := h.pinger.PingContext(ctx); err != nil {
			h.logger.Warn("GET /health - Storage is unavailable: %v", err)
			handlers.RespondJSON(w, http.StatusServiceUnavailable, StatusResponse{Status: "unavailable", Storage: h.storage})
			return
		}
	}

	handlers.RespondJSON(w, http.StatusOK, StatusResponse{Status: "ok", Storage: h.storage})
}
