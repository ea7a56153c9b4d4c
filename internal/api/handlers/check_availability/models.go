package check_availability

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-ClinicBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
	checkAvailability "github.com/m04kA/SMC-ClinicBooking/internal/usecase/check_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Kind      string `json:"kind"`
	ID        int64  `json:"id"`
	StartAt   string `json:"startAt"`
	EndAt     string `json:"endAt"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// ToUseCaseRequest формирует запрос use case из query параметров
func ToUseCaseRequest(query url.Values) (*checkAvailability.Request, error) {
	kind, err := domain.ParseSubjectKind(query.Get("kind"))
	if err != nil {
		return nil, err
	}

	id, err := strconv.ParseInt(query.Get("id"), 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%w: id=%q", domain.ErrInvalidInput, query.Get("id"))
	}

	startAt, err := handlers.ParseDateTime(query.Get("start"))
	if err != nil {
		return nil, err
	}
	endAt, err := handlers.ParseDateTime(query.Get("end"))
	if err != nil {
		return nil, err
	}

	return &checkAvailability.Request{
		Kind:      kind,
		SubjectID: id,
		StartAt:   startAt,
		EndAt:     endAt,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(req *checkAvailability.Request, resp *checkAvailability.Response, query url.Values) *AvailabilityResponse {
	return &AvailabilityResponse{
		Kind:      string(req.Kind),
		ID:        req.SubjectID,
		StartAt:   query.Get("start"),
		EndAt:     query.Get("end"),
		Available: resp.Available,
		Reason:    resp.Reason,
	}
}
