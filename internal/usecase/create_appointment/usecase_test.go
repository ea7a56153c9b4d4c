package create_appointment

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBooking/internal/clinictest"
	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
	"github.com/m04kA/SMC-ClinicBooking/pkg/ptr"
	"github.com/m04kA/SMC-ClinicBooking/pkg/types"
)

func newUseCase(c *clinictest.Clinic) *UseCase {
	return NewUseCase(
		c.Store.Subjects(),
		c.Store.Schedules(),
		c.Store.Commitments(),
		c.Detector,
		c.Capacity,
		c.Store,
		nil,
		clinictest.Location,
		c.Log,
	).WithTimeProvider(c.Clock)
}

func TestExecute_CreatesAppointmentWithChildren(t *testing.T) {
	c := clinictest.New(t, domain.PolicyStrict)
	uc := newUseCase(c)

	resp, err := uc.Execute(context.Background(), &Request{
		DoctorID:    clinictest.DoctorID,
		PatientID:   clinictest.PatientID,
		StartAt:     clinictest.Monday(10, 0),
		RoomID:      ptr.Ptr(clinictest.RoomID),
		ResourceIDs: []int64{clinictest.SingleResourceID, clinictest.ResourceID},
	})
	require.NoError(t, err)

	appointment := resp.Appointment
	assert.Equal(t, domain.SubjectDoctor, appointment.SubjectKind)
	assert.Equal(t, clinictest.DoctorID, appointment.SubjectID)
	assert.Equal(t, domain.StatusBooked, appointment.Status)
	assert.True(t, appointment.StartAt.Equal(clinictest.Monday(10, 0)))
	assert.True(t, appointment.EndAt.Equal(clinictest.Monday(10, 30)))

	require.NotNil(t, resp.RoomBooking)
	assert.Equal(t, clinictest.RoomID, resp.RoomBooking.SubjectID)
	assert.Equal(t, appointment.ID, ptr.Value(resp.RoomBooking.AppointmentID))
	assert.Equal(t, clinictest.PatientID, ptr.Value(resp.RoomBooking.PatientID))

	// Ресурсы по возрастанию id
	require.Len(t, resp.ResourceBookings, 2)
	assert.Equal(t, clinictest.ResourceID, resp.ResourceBookings[0].SubjectID)
	assert.Equal(t, clinictest.SingleResourceID, resp.ResourceBookings[1].SubjectID)
	for _, child := range resp.ResourceBookings {
		assert.True(t, child.StartAt.Equal(appointment.StartAt))
		assert.True(t, child.EndAt.Equal(appointment.EndAt))
	}

	assert.False(t, c.Room(t, clinictest.RoomID).Available)
	assert.Equal(t, 1, c.Resource(t, clinictest.ResourceID).Quantity)
	assert.Equal(t, 0, c.Resource(t, clinictest.SingleResourceID).Quantity)
	c.RequireConserved(t)
}

func TestExecute_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{
			name:    "zero doctor",
			req:     Request{PatientID: clinictest.PatientID, StartAt: clinictest.Monday(10, 0)},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "missing start",
			req:     Request{DoctorID: clinictest.DoctorID, PatientID: clinictest.PatientID},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "duplicate resource",
			req: Request{
				DoctorID:    clinictest.DoctorID,
				PatientID:   clinictest.PatientID,
				StartAt:     clinictest.Monday(10, 0),
				ResourceIDs: []int64{clinictest.ResourceID, clinictest.ResourceID},
			},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "unknown doctor",
			req:     Request{DoctorID: 99, PatientID: clinictest.PatientID, StartAt: clinictest.Monday(10, 0)},
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "unknown patient",
			req:     Request{DoctorID: clinictest.DoctorID, PatientID: 99, StartAt: clinictest.Monday(10, 0)},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "unknown room",
			req: Request{
				DoctorID:  clinictest.DoctorID,
				PatientID: clinictest.PatientID,
				StartAt:   clinictest.Monday(10, 0),
				RoomID:    ptr.Ptr(int64(99)),
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "inactive doctor",
			req:     Request{DoctorID: clinictest.InactiveDoctorID, PatientID: clinictest.PatientID, StartAt: clinictest.Monday(10, 0)},
			wantErr: domain.ErrInactive,
		},
		{
			name:    "inactive patient",
			req:     Request{DoctorID: clinictest.DoctorID, PatientID: clinictest.InactivePatientID, StartAt: clinictest.Monday(10, 0)},
			wantErr: domain.ErrInactive,
		},
		{
			name:    "doctor without schedule",
			req:     Request{DoctorID: clinictest.UnscheduledDoctorID, PatientID: clinictest.PatientID, StartAt: clinictest.Monday(10, 0)},
			wantErr: domain.ErrNoScheduleForDay,
		},
		{
			name:    "day without schedule",
			req:     Request{DoctorID: clinictest.DoctorID, PatientID: clinictest.PatientID, StartAt: clinictest.Tuesday(10, 0)},
			wantErr: domain.ErrNoScheduleForDay,
		},
		{
			name:    "off grid",
			req:     Request{DoctorID: clinictest.DoctorID, PatientID: clinictest.PatientID, StartAt: clinictest.Monday(10, 15)},
			wantErr: domain.ErrMisalignedSlot,
		},
		{
			name:    "outside working hours",
			req:     Request{DoctorID: clinictest.DoctorID, PatientID: clinictest.PatientID, StartAt: clinictest.Monday(12, 0)},
			wantErr: domain.ErrMisalignedSlot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := clinictest.New(t, domain.PolicyStrict)
			uc := newUseCase(c)

			req := tt.req
			resp, err := uc.Execute(context.Background(), &req)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, resp)
			assert.Zero(t, c.ActiveCount(t, domain.SubjectDoctor, req.DoctorID))
			c.RequireConserved(t)
		})
	}
}

func TestExecute_SlotInPast(t *testing.T) {
	c := clinictest.New(t, domain.PolicyStrict)
	c.Clock.At = clinictest.Monday(10, 0)
	uc := newUseCase(c)

	for _, startAt := range []types.TimeString{"09:30", "10:00"} {
		start, err := startAt.On(clinictest.Monday(0, 0), clinictest.Location)
		require.NoError(t, err)

		_, err = uc.Execute(context.Background(), &Request{
			DoctorID:  clinictest.DoctorID,
			PatientID: clinictest.PatientID,
			StartAt:   start,
		})
		require.ErrorIs(t, err, domain.ErrSlotInPast, "start %s", startAt)
		assert.Equal(t, domain.CodeMisalignedSlot, domain.ErrorCode(err))
	}

	_, err := uc.Execute(context.Background(), &Request{
		DoctorID:  clinictest.DoctorID,
		PatientID: clinictest.PatientID,
		StartAt:   clinictest.Monday(10, 30),
	})
	require.NoError(t, err)
}

func TestExecute_AcceptsStartInOtherZone(t *testing.T) {
	c := clinictest.New(t, domain.PolicyStrict)
	uc := newUseCase(c)

	// 07:00 UTC == 10:00 по часам клиники
	resp, err := uc.Execute(context.Background(), &Request{
		DoctorID:  clinictest.DoctorID,
		PatientID: clinictest.PatientID,
		StartAt:   clinictest.Monday(10, 0).UTC(),
	})
	require.NoError(t, err)
	assert.True(t, resp.Appointment.StartAt.Equal(clinictest.Monday(10, 0)))
}

func TestExecute_DoctorDoubleBooked(t *testing.T) {
	c := clinictest.New(t, domain.PolicyStrict)
	uc := newUseCase(c)
	ctx := context.Background()

	_, err := uc.Execute(ctx, &Request{
		DoctorID:  clinictest.DoctorID,
		PatientID: clinictest.PatientID,
		StartAt:   clinictest.Monday(10, 0),
	})
	require.NoError(t, err)

	// Тот же слот с кабинетом: ни приема, ни брони кабинета
	_, err = uc.Execute(ctx, &Request{
		DoctorID:  clinictest.DoctorID,
		PatientID: clinictest.PatientID,
		StartAt:   clinictest.Monday(10, 0),
		RoomID:    ptr.Ptr(clinictest.RoomID),
	})
	require.ErrorIs(t, err, domain.ErrDoubleBooked)
	assert.Equal(t, 1, c.ActiveCount(t, domain.SubjectDoctor, clinictest.DoctorID))
	assert.True(t, c.Room(t, clinictest.RoomID).Available)

	// Соседний слот граничит с занятым и свободен
	_, err = uc.Execute(ctx, &Request{
		DoctorID:  clinictest.DoctorID,
		PatientID: clinictest.PatientID,
		StartAt:   clinictest.Monday(10, 30),
	})
	require.NoError(t, err)
	c.RequireConserved(t)
}

func TestExecute_RoomConflictRollsBack(t *testing.T) {
	c := clinictest.New(t, domain.PolicyStrict)
	ctx := context.Background()
	_, err := c.Store.Schedules().Create(ctx, &domain.ScheduleTemplate{
		DoctorID:            clinictest.UnscheduledDoctorID,
		DayOfWeek:           domain.Monday,
		StartTime:           "08:00",
		EndTime:             "12:00",
		SlotDurationMinutes: 20,
	})
	require.NoError(t, err)
	uc := newUseCase(c)

	_, err = uc.Execute(ctx, &Request{
		DoctorID:  clinictest.DoctorID,
		PatientID: clinictest.PatientID,
		StartAt:   clinictest.Monday(10, 0),
		RoomID:    ptr.Ptr(clinictest.RoomID),
	})
	require.NoError(t, err)

	// 10:20-10:40 пересекает 10:00-10:30 в кабинете 101
	_, err = uc.Execute(ctx, &Request{
		DoctorID:    clinictest.UnscheduledDoctorID,
		PatientID:   clinictest.PatientID,
		StartAt:     clinictest.Monday(10, 20),
		RoomID:      ptr.Ptr(clinictest.RoomID),
		ResourceIDs: []int64{clinictest.ResourceID},
	})
	require.ErrorIs(t, err, domain.ErrDoubleBooked)
	assert.Zero(t, c.ActiveCount(t, domain.SubjectDoctor, clinictest.UnscheduledDoctorID))
	assert.Equal(t, 2, c.Resource(t, clinictest.ResourceID).Quantity)
	c.RequireConserved(t)
}

func TestExecute_ResourceExhaustedRollsBack(t *testing.T) {
	c := clinictest.New(t, domain.PolicyStrict)
	uc := newUseCase(c)
	ctx := context.Background()

	_, err := uc.Execute(ctx, &Request{
		DoctorID:    clinictest.DoctorID,
		PatientID:   clinictest.PatientID,
		StartAt:     clinictest.Monday(10, 0),
		ResourceIDs: []int64{clinictest.SingleResourceID},
	})
	require.NoError(t, err)

	// Единица ЭКГ удержана до завершения первой брони, даже без пересечения по времени
	_, err = uc.Execute(ctx, &Request{
		DoctorID:    clinictest.DoctorID,
		PatientID:   clinictest.PatientID,
		StartAt:     clinictest.Monday(11, 0),
		RoomID:      ptr.Ptr(clinictest.OtherRoomID),
		ResourceIDs: []int64{clinictest.ResourceID, clinictest.SingleResourceID},
	})
	require.ErrorIs(t, err, domain.ErrCapacityExceeded)

	assert.Equal(t, 1, c.ActiveCount(t, domain.SubjectDoctor, clinictest.DoctorID))
	assert.True(t, c.Room(t, clinictest.OtherRoomID).Available)
	assert.Equal(t, 2, c.Resource(t, clinictest.ResourceID).Quantity)
	c.RequireConserved(t)
}

func TestExecute_ConcurrentRequestsForSameSlot(t *testing.T) {
	c := clinictest.New(t, domain.PolicyStrict)
	uc := newUseCase(c)

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		granted   int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), &Request{
				DoctorID:    clinictest.DoctorID,
				PatientID:   clinictest.PatientID,
				StartAt:     clinictest.Monday(9, 0),
				RoomID:      ptr.Ptr(clinictest.RoomID),
				ResourceIDs: []int64{clinictest.ResourceID},
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				granted++
			case domain.ErrorCode(err) == domain.CodeDoubleBooked, domain.ErrorCode(err) == domain.CodeBusy:
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, granted)
	assert.Equal(t, workers-1, conflicts)
	assert.Equal(t, 1, c.ActiveCount(t, domain.SubjectDoctor, clinictest.DoctorID))
	assert.Equal(t, 1, c.Resource(t, clinictest.ResourceID).Quantity)
	c.RequireConserved(t)
}
