package cancel_booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBooking/internal/clinictest"
	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
	createAppointment "github.com/m04kA/SMC-ClinicBooking/internal/usecase/create_appointment"
	reconcileExpired "github.com/m04kA/SMC-ClinicBooking/internal/usecase/reconcile_expired"
	"github.com/m04kA/SMC-ClinicBooking/pkg/ptr"
)

func setup(t *testing.T) (*clinictest.Clinic, *UseCase, *createAppointment.Response) {
	t.Helper()
	c := clinictest.New(t, domain.PolicyStrict)

	create := createAppointment.NewUseCase(
		c.Store.Subjects(), c.Store.Schedules(), c.Store.Commitments(),
		c.Detector, c.Capacity, c.Store, nil, clinictest.Location, c.Log,
	).WithTimeProvider(c.Clock)

	created, err := create.Execute(context.Background(), &createAppointment.Request{
		DoctorID:    clinictest.DoctorID,
		PatientID:   clinictest.PatientID,
		StartAt:     clinictest.Monday(10, 0),
		RoomID:      ptr.Ptr(clinictest.RoomID),
		ResourceIDs: []int64{clinictest.ResourceID},
	})
	require.NoError(t, err)

	uc := NewUseCase(c.Store.Commitments(), c.Capacity, c.Store, nil, c.Log).WithTimeProvider(c.Clock)
	return c, uc, created
}

func TestExecute_CancelAppointmentCascades(t *testing.T) {
	c, uc, created := setup(t)

	resp, err := uc.Execute(context.Background(), &Request{
		BookingID: created.Appointment.ID,
		Kind:      ptr.Ptr(domain.SubjectDoctor),
	})
	require.NoError(t, err)
	require.Len(t, resp.Cancelled, 3)
	assert.Equal(t, created.Appointment.ID, resp.Cancelled[0].ID)

	for _, cancelled := range resp.Cancelled {
		stored := c.Booking(t, cancelled.ID)
		assert.Equal(t, domain.StatusCancelled, stored.Status)
		require.NotNil(t, stored.CancelledAt)
		assert.True(t, stored.CancelledAt.Equal(c.Clock.At))
	}

	assert.True(t, c.Room(t, clinictest.RoomID).Available)
	assert.Equal(t, 2, c.Resource(t, clinictest.ResourceID).Quantity)
	c.RequireConserved(t)
}

func TestExecute_CancelTwiceIsAlreadyTerminal(t *testing.T) {
	c, uc, created := setup(t)
	ctx := context.Background()

	_, err := uc.Execute(ctx, &Request{BookingID: created.Appointment.ID})
	require.NoError(t, err)

	_, err = uc.Execute(ctx, &Request{BookingID: created.Appointment.ID})
	require.ErrorIs(t, err, domain.ErrAlreadyTerminal)

	// Емкость не возвращается второй раз
	assert.Equal(t, 2, c.Resource(t, clinictest.ResourceID).Quantity)
	c.RequireConserved(t)
}

func TestExecute_CancelAfterReconcileIsAlreadyTerminal(t *testing.T) {
	c, uc, created := setup(t)
	ctx := context.Background()

	reconcile := reconcileExpired.NewUseCase(c.Store.Commitments(), c.Capacity, c.Store, nil, 100, c.Log)
	resp, err := reconcile.Execute(ctx, clinictest.Monday(12, 0))
	require.NoError(t, err)
	require.Equal(t, 3, resp.Reclaimed)
	assert.Equal(t, 2, c.Resource(t, clinictest.ResourceID).Quantity)
	assert.True(t, c.Room(t, clinictest.RoomID).Available)

	for _, id := range []int64{created.Appointment.ID, created.RoomBooking.ID, created.ResourceBookings[0].ID} {
		_, err = uc.Execute(ctx, &Request{BookingID: id})
		require.ErrorIs(t, err, domain.ErrAlreadyTerminal, "booking id=%d", id)
		assert.Equal(t, domain.StatusCompleted, c.Booking(t, id).Status)
		assert.Nil(t, c.Booking(t, id).CancelledAt)
	}

	// Завершенная бронь не возвращает емкость второй раз
	assert.Equal(t, 2, c.Resource(t, clinictest.ResourceID).Quantity)
	c.RequireConserved(t)
}

func TestExecute_CancelChildKeepsAppointment(t *testing.T) {
	c, uc, created := setup(t)

	resp, err := uc.Execute(context.Background(), &Request{
		BookingID: created.ResourceBookings[0].ID,
		Kind:      ptr.Ptr(domain.SubjectResource),
	})
	require.NoError(t, err)
	require.Len(t, resp.Cancelled, 1)

	assert.Equal(t, domain.StatusBooked, c.Booking(t, created.Appointment.ID).Status)
	assert.Equal(t, domain.StatusBooked, c.Booking(t, created.RoomBooking.ID).Status)
	assert.Equal(t, 2, c.Resource(t, clinictest.ResourceID).Quantity)
	assert.False(t, c.Room(t, clinictest.RoomID).Available)
	c.RequireConserved(t)

	// Отмена приема затрагивает только оставшиеся активные брони
	resp, err = uc.Execute(context.Background(), &Request{BookingID: created.Appointment.ID})
	require.NoError(t, err)
	assert.Len(t, resp.Cancelled, 2)
	c.RequireConserved(t)
}

func TestExecute_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		req     func(created *createAppointment.Response) *Request
		wantErr error
	}{
		{
			name:    "zero id",
			req:     func(*createAppointment.Response) *Request { return &Request{} },
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "unknown booking",
			req:     func(*createAppointment.Response) *Request { return &Request{BookingID: 999} },
			wantErr: domain.ErrNotFound,
		},
		{
			name: "kind mismatch",
			req: func(created *createAppointment.Response) *Request {
				return &Request{BookingID: created.RoomBooking.ID, Kind: ptr.Ptr(domain.SubjectResource)}
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, uc, created := setup(t)

			_, err := uc.Execute(context.Background(), tt.req(created))
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 1, c.ActiveCount(t, domain.SubjectDoctor, clinictest.DoctorID))
			c.RequireConserved(t)
		})
	}
}
