package create_appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
	createAppointment "github.com/m04kA/SMC-ClinicBooking/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-ClinicBooking/pkg/logger"
	"github.com/m04kA/SMC-ClinicBooking/pkg/ptr"
)

type fakeUseCase struct {
	got  *createAppointment.Request
	resp *createAppointment.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createAppointment.Request) (*createAppointment.Response, error) {
	f.got = req
	return f.resp, f.err
}

var msk = time.FixedZone("MSK", 3*3600)

const validBody = `{"doctorId": 1, "patientId": 2, "startAt": "2030-01-07T10:00:00+03:00", "roomId": 3, "resourceIds": [4]}`

func TestHandle_Created(t *testing.T) {
	start := time.Date(2030, time.January, 7, 7, 0, 0, 0, time.UTC)
	appointment := &domain.Commitment{
		ID: 10, SubjectKind: domain.SubjectDoctor, SubjectID: 1, PatientID: ptr.Ptr(int64(2)),
		StartAt: start, EndAt: start.Add(30 * time.Minute), Status: domain.StatusBooked,
	}
	room := &domain.Commitment{
		ID: 11, SubjectKind: domain.SubjectRoom, SubjectID: 3, AppointmentID: ptr.Ptr(int64(10)),
		StartAt: start, EndAt: start.Add(30 * time.Minute), Status: domain.StatusBooked,
	}
	uc := &fakeUseCase{resp: &createAppointment.Response{Appointment: appointment, RoomBooking: room}}
	h := NewHandler(uc, msk, logger.NewNop())

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(validBody)))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.got)
	assert.True(t, uc.got.StartAt.Equal(start))
	assert.Equal(t, ptr.Ptr(int64(3)), uc.got.RoomID)
	assert.Equal(t, []int64{4}, uc.got.ResourceIDs)

	var body AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(10), body.Appointment.ID)
	assert.Equal(t, "2030-01-07T10:00:00+03:00", body.Appointment.StartAt)
	require.NotNil(t, body.RoomBooking)
	assert.Equal(t, int64(11), body.RoomBooking.ID)
	assert.Empty(t, body.ResourceBookings)
}

func TestHandle_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown field", body: `{"doctorId": 1, "patientId": 2, "startAt": "2030-01-07T10:00:00Z", "nurseId": 1}`},
		{name: "missing patient", body: `{"doctorId": 1, "startAt": "2030-01-07T10:00:00Z"}`},
		{name: "zero resource", body: `{"doctorId": 1, "patientId": 2, "startAt": "2030-01-07T10:00:00Z", "resourceIds": [0]}`},
		{name: "not rfc3339", body: `{"doctorId": 1, "patientId": 2, "startAt": "07.01.2030 10:00"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{}
			h := NewHandler(uc, msk, logger.NewNop())

			rec := httptest.NewRecorder()
			h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(tt.body)))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, uc.got)
		})
	}
}

func TestHandle_DomainErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "busy", err: fmt.Errorf("lock doctor 1: %w", domain.ErrBusy), wantStatus: http.StatusServiceUnavailable, wantCode: domain.CodeBusy},
		{name: "not found", err: fmt.Errorf("room 3: %w", domain.ErrNotFound), wantStatus: http.StatusNotFound, wantCode: domain.CodeNotFound},
		{name: "inactive", err: domain.ErrInactive, wantStatus: http.StatusUnprocessableEntity, wantCode: domain.CodeInactive},
		{name: "no schedule", err: domain.ErrNoScheduleForDay, wantStatus: http.StatusUnprocessableEntity, wantCode: domain.CodeNoScheduleForDay},
		{name: "in the past", err: domain.ErrSlotInPast, wantStatus: http.StatusUnprocessableEntity, wantCode: domain.CodeMisalignedSlot},
		{name: "double booked", err: domain.ErrDoubleBooked, wantStatus: http.StatusConflict, wantCode: domain.CodeDoubleBooked},
		{name: "capacity", err: domain.ErrCapacityExceeded, wantStatus: http.StatusConflict, wantCode: domain.CodeCapacityExceeded},
		{name: "duplicate resources", err: domain.ErrInvalidInput, wantStatus: http.StatusBadRequest, wantCode: domain.CodeInvalidInput},
		{name: "storage", err: errors.New("connection refused"), wantStatus: http.StatusInternalServerError, wantCode: domain.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tt.err}, msk, logger.NewNop())

			rec := httptest.NewRecorder()
			h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(validBody)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotEmpty(t, body.Error)
			if tt.wantStatus == http.StatusServiceUnavailable {
				assert.Equal(t, "1", rec.Header().Get("Retry-After"))
			}
		})
	}
}
