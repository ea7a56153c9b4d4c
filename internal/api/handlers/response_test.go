package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: nil, want: http.StatusOK},
		{err: domain.ErrBusy, want: http.StatusServiceUnavailable},
		{err: fmt.Errorf("lock doctor: %w", domain.ErrBusy), want: http.StatusServiceUnavailable},
		{err: domain.ErrNotFound, want: http.StatusNotFound},
		{err: domain.ErrDoubleBooked, want: http.StatusConflict},
		{err: domain.ErrCapacityExceeded, want: http.StatusConflict},
		{err: domain.ErrAlreadyTerminal, want: http.StatusConflict},
		{err: domain.ErrInactive, want: http.StatusUnprocessableEntity},
		{err: domain.ErrNoScheduleForDay, want: http.StatusUnprocessableEntity},
		{err: domain.ErrSlotInPast, want: http.StatusUnprocessableEntity},
		{err: domain.ErrInvalidRange, want: http.StatusBadRequest},
		{err: domain.ErrInvalidInput, want: http.StatusBadRequest},
		{err: errors.New("connection reset"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		name := "nil"
		if tt.err != nil {
			name = tt.err.Error()
		}
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFromError(tt.err))
		})
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRespondDomainError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondDomainError(rec, fmt.Errorf("room 3: %w", domain.ErrDoubleBooked), "занято")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, ErrorResponse{Error: "занято", Code: domain.CodeDoubleBooked}, decodeError(t, rec))

	rec = httptest.NewRecorder()
	RespondDomainError(rec, domain.ErrBusy, "не важно")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Equal(t, domain.CodeBusy, decodeError(t, rec).Code)

	// Текст внутренней ошибки наружу не уходит
	rec = httptest.NewRecorder()
	RespondDomainError(rec, errors.New("pq: relation does not exist"), "не важно")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, ErrorResponse{Error: msgInternalError, Code: domain.CodeInternal}, decodeError(t, rec))
}

type decodeTarget struct {
	DoctorID int64  `json:"doctorId" validate:"required,gt=0"`
	StartAt  string `json:"startAt" validate:"required"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"doctorId": 1, "startAt": "2030-01-07T10:00:00+03:00"}`},
		{name: "unknown field", body: `{"doctorId": 1, "startAt": "x", "roomNumber": 5}`, wantErr: true},
		{name: "missing required", body: `{"doctorId": 1}`, wantErr: true},
		{name: "negative id", body: `{"doctorId": -1, "startAt": "x"}`, wantErr: true},
		{name: "malformed", body: `{"doctorId":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var v decodeTarget
			err := DecodeJSON(r, &v)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(1), v.DoctorID)
		})
	}
}

func TestPathID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{raw: "42", want: 42},
		{raw: "0", wantErr: true},
		{raw: "-3", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"bookingId": tt.raw})
			id, err := PathID(r, "bookingId")
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestParseDate(t *testing.T) {
	loc := time.FixedZone("MSK", 3*3600)

	day, err := ParseDate("2030-01-07", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2030, time.January, 7, 0, 0, 0, 0, loc), day)

	_, err = ParseDate("07.01.2030", loc)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	at, err := ParseDateTime("2030-01-07T10:00:00+03:00")
	require.NoError(t, err)
	assert.True(t, at.Equal(time.Date(2030, time.January, 7, 7, 0, 0, 0, time.UTC)))

	_, err = ParseDateTime("2030-01-07 10:00")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
