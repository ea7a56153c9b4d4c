package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
)

const (
	msgInternalError = "внутренняя ошибка сервера"
	msgBusy          = "ресурс занят конкурентным запросом, повторите позже"

	// RetryAfterSeconds подсказка клиенту при ErrBusy
	RetryAfterSeconds = 1
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// RespondJSON отправляет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// RespondError отправляет ответ с ошибкой
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondJSON(w, http.StatusBadRequest, ErrorResponse{Error: message, Code: domain.CodeInvalidInput})
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondJSON(w, http.StatusNotFound, ErrorResponse{Error: message, Code: domain.CodeNotFound})
}

func RespondInternalError(w http.ResponseWriter) {
	RespondJSON(w, http.StatusInternalServerError, ErrorResponse{Error: msgInternalError, Code: domain.CodeInternal})
}

// RespondBusy 503 с заголовком Retry-After
func RespondBusy(w http.ResponseWriter) {
	w.Header().Set("Retry-After", strconv.Itoa(RetryAfterSeconds))
	RespondJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: msgBusy, Code: domain.CodeBusy})
}

// RespondDomainError отправляет ошибку арбитра со статусом по ее категории
func RespondDomainError(w http.ResponseWriter, err error, message string) {
	status := StatusFromError(err)
	if status == http.StatusServiceUnavailable {
		RespondBusy(w)
		return
	}
	if status == http.StatusInternalServerError {
		RespondInternalError(w)
		return
	}
	RespondJSON(w, status, ErrorResponse{Error: message, Code: domain.ErrorCode(err)})
}

// StatusFromError HTTP статус для категории ошибки
func StatusFromError(err error) int {
	switch domain.ErrorCode(err) {
	case domain.CodeGranted:
		return http.StatusOK
	case domain.CodeBusy:
		return http.StatusServiceUnavailable
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeDoubleBooked, domain.CodeCapacityExceeded, domain.CodeAlreadyTerminal:
		return http.StatusConflict
	case domain.CodeInactive, domain.CodeNoScheduleForDay, domain.CodeMisalignedSlot:
		return http.StatusUnprocessableEntity
	case domain.CodeInvalidRange, domain.CodeInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// DecodeJSON декодирует тело запроса и проверяет validate-теги
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("%w: empty body", domain.ErrInvalidInput)
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("%w: decode body: %v", domain.ErrInvalidInput, err)
	}
	if err := validate.Struct(v); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return nil
		}
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// PathID извлекает положительный int64 из переменной маршрута
func PathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s=%q", domain.ErrInvalidInput, name, raw)
	}
	return id, nil
}

// ParseDateTime разбирает RFC 3339 метку времени
func ParseDateTime(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: datetime %q: %v", domain.ErrInvalidInput, raw, err)
	}
	return t, nil
}

// ParseDate разбирает дату YYYY-MM-DD в часовом поясе клиники
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(domain.DateFormat, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q: %v", domain.ErrInvalidInput, raw, err)
	}
	return t, nil
}
