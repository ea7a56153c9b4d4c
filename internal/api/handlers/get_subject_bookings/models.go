package get_subject_bookings

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-ClinicBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
	"github.com/m04kA/SMC-ClinicBooking/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
// Query params: from, to (RFC 3339), status, includeInactive (все опциональны)
func ToServiceRequest(kind domain.SubjectKind, subjectID int64, query url.Values) (*models.ListBySubjectRequest, error) {
	req := &models.ListBySubjectRequest{
		SubjectKind: string(kind),
		SubjectID:   subjectID,
	}

	if raw := query.Get("from"); raw != "" {
		from, err := handlers.ParseDateTime(raw)
		if err != nil {
			return nil, err
		}
		req.From = &from
	}

	if raw := query.Get("to"); raw != "" {
		to, err := handlers.ParseDateTime(raw)
		if err != nil {
			return nil, err
		}
		req.To = &to
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if raw := query.Get("includeInactive"); raw != "" {
		includeInactive, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid includeInactive value: %v", domain.ErrInvalidInput, err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
