package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBooking/internal/clinictest"
	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
	cancelBooking "github.com/m04kA/SMC-ClinicBooking/internal/usecase/cancel_booking"
	createAppointment "github.com/m04kA/SMC-ClinicBooking/internal/usecase/create_appointment"
)

func newUseCase(c *clinictest.Clinic) *UseCase {
	return NewUseCase(
		c.Store.Subjects(),
		c.Store.Schedules(),
		c.Store.Commitments(),
		clinictest.Location,
		c.Log,
	).WithTimeProvider(c.Clock)
}

func starts(slots []domain.AvailableSlot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.StartAt.In(clinictest.Location).Format(domain.TimeFormat))
	}
	return out
}

func TestExecute_FullGrid(t *testing.T) {
	c := clinictest.New(t, domain.PolicyStrict)

	resp, err := newUseCase(c).Execute(context.Background(), &Request{
		DoctorID: clinictest.DoctorID,
		Date:     clinictest.Monday(15, 0),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.Monday, resp.DayOfWeek)
	assert.Equal(t, 30, resp.SlotDurationMinutes)
	assert.True(t, resp.Date.Equal(clinictest.Monday(0, 0)))
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}, starts(resp.Slots))
	for _, slot := range resp.Slots {
		assert.Equal(t, 30, slot.DurationMinutes())
	}
}

func TestExecute_ExcludesBookedAndPastSlots(t *testing.T) {
	c := clinictest.New(t, domain.PolicyStrict)
	ctx := context.Background()
	create := createAppointment.NewUseCase(
		c.Store.Subjects(), c.Store.Schedules(), c.Store.Commitments(),
		c.Detector, c.Capacity, c.Store, nil, clinictest.Location, c.Log,
	).WithTimeProvider(c.Clock)
	cancel := cancelBooking.NewUseCase(c.Store.Commitments(), c.Capacity, c.Store, nil, c.Log).WithTimeProvider(c.Clock)
	uc := newUseCase(c)
	req := &Request{DoctorID: clinictest.DoctorID, Date: clinictest.Monday(0, 0)}

	booked, err := create.Execute(ctx, &createAppointment.Request{
		DoctorID:  clinictest.DoctorID,
		PatientID: clinictest.PatientID,
		StartAt:   clinictest.Monday(10, 30),
	})
	require.NoError(t, err)

	resp, err := uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "11:00", "11:30"}, starts(resp.Slots))

	// Слот, начавшийся ровно сейчас, уже не предлагается
	c.Clock.At = clinictest.Monday(10, 0)
	resp, err = uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, []string{"11:00", "11:30"}, starts(resp.Slots))

	// Отмена возвращает слот
	_, err = cancel.Execute(ctx, &cancelBooking.Request{BookingID: booked.Appointment.ID})
	require.NoError(t, err)
	resp, err = uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, []string{"10:30", "11:00", "11:30"}, starts(resp.Slots))
}

func TestExecute_InactiveDoctorHasNoSlots(t *testing.T) {
	c := clinictest.New(t, domain.PolicyStrict)

	resp, err := newUseCase(c).Execute(context.Background(), &Request{
		DoctorID: clinictest.InactiveDoctorID,
		Date:     clinictest.Monday(0, 0),
	})
	require.NoError(t, err)
	assert.NotNil(t, resp.Slots)
	assert.Empty(t, resp.Slots)
}

func TestExecute_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{name: "zero doctor", req: Request{Date: clinictest.Monday(0, 0)}, wantErr: domain.ErrInvalidInput},
		{name: "zero date", req: Request{DoctorID: clinictest.DoctorID}, wantErr: domain.ErrInvalidInput},
		{name: "unknown doctor", req: Request{DoctorID: 99, Date: clinictest.Monday(0, 0)}, wantErr: domain.ErrNotFound},
		{name: "day without schedule", req: Request{DoctorID: clinictest.DoctorID, Date: clinictest.Tuesday(0, 0)}, wantErr: domain.ErrNoScheduleForDay},
		{name: "doctor without schedule", req: Request{DoctorID: clinictest.UnscheduledDoctorID, Date: clinictest.Monday(0, 0)}, wantErr: domain.ErrNoScheduleForDay},
	}

	c := clinictest.New(t, domain.PolicyStrict)
	uc := newUseCase(c)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			resp, err := uc.Execute(context.Background(), &req)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, resp)
		})
	}
}

func TestGenerateSlots_BoundaryOverlap(t *testing.T) {
	template := &domain.ScheduleTemplate{
		DoctorID:            clinictest.DoctorID,
		DayOfWeek:           domain.Monday,
		StartTime:           "11:00",
		EndTime:             "12:00",
		SlotDurationMinutes: 30,
	}
	now := clinictest.Monday(0, 0)
	busy := []*domain.Commitment{
		// 11:20-11:40 задевает оба слота
		{ID: 1, SubjectKind: domain.SubjectDoctor, StartAt: clinictest.Monday(11, 20), EndAt: clinictest.Monday(11, 40), Status: domain.StatusBooked},
	}

	slots, err := generateSlots(template, clinictest.Monday(0, 0), clinictest.Location, now, busy)
	require.NoError(t, err)
	assert.Empty(t, slots)

	// Граничащие брони и завершенные брони не мешают
	busy = []*domain.Commitment{
		{ID: 1, SubjectKind: domain.SubjectDoctor, StartAt: clinictest.Monday(10, 30), EndAt: clinictest.Monday(11, 0), Status: domain.StatusBooked},
		{ID: 2, SubjectKind: domain.SubjectDoctor, StartAt: clinictest.Monday(12, 0), EndAt: clinictest.Monday(12, 30), Status: domain.StatusBooked},
		{ID: 3, SubjectKind: domain.SubjectDoctor, StartAt: clinictest.Monday(11, 0), EndAt: clinictest.Monday(11, 30), Status: domain.StatusCompleted},
	}
	slots, err = generateSlots(template, clinictest.Monday(0, 0), clinictest.Location, now, busy)
	require.NoError(t, err)
	assert.Equal(t, []string{"11:00", "11:30"}, starts(slots))
	assert.Equal(t, 30*time.Minute, slots[0].EndAt.Sub(slots[0].StartAt))
}
