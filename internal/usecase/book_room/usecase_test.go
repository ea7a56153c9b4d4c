package book_room

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBooking/internal/clinictest"
	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
	cancelBooking "github.com/m04kA/SMC-ClinicBooking/internal/usecase/cancel_booking"
	createAppointment "github.com/m04kA/SMC-ClinicBooking/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-ClinicBooking/pkg/ptr"
)

func newUseCase(c *clinictest.Clinic) *UseCase {
	return NewUseCase(c.Store.Commitments(), c.Detector, c.Capacity, c.Store, nil, c.Log)
}

func TestExecute_BooksRoom(t *testing.T) {
	c := clinictest.New(t, domain.PolicyStrict)
	uc := newUseCase(c)
	ctx := context.Background()

	// Сетка врачей к кабинетам не применяется
	resp, err := uc.Execute(ctx, &Request{
		RoomID:  clinictest.RoomID,
		StartAt: clinictest.Monday(10, 5),
		EndAt:   clinictest.Monday(10, 50),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SubjectRoom, resp.Booking.SubjectKind)
	assert.Equal(t, domain.StatusBooked, resp.Booking.Status)
	assert.False(t, c.Room(t, clinictest.RoomID).Available)

	_, err = uc.Execute(ctx, &Request{
		RoomID:  clinictest.RoomID,
		StartAt: clinictest.Monday(10, 45),
		EndAt:   clinictest.Monday(11, 15),
	})
	require.ErrorIs(t, err, domain.ErrDoubleBooked)

	// Кабинет недоступен, но непересекающийся интервал бронируется
	_, err = uc.Execute(ctx, &Request{
		RoomID:  clinictest.RoomID,
		StartAt: clinictest.Monday(10, 50),
		EndAt:   clinictest.Monday(11, 15),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, c.ActiveCount(t, domain.SubjectRoom, clinictest.RoomID))
	c.RequireConserved(t)
}

func TestExecute_RoomAvailableAfterLastCancel(t *testing.T) {
	c := clinictest.New(t, domain.PolicyStrict)
	uc := newUseCase(c)
	cancel := cancelBooking.NewUseCase(c.Store.Commitments(), c.Capacity, c.Store, nil, c.Log).WithTimeProvider(c.Clock)
	ctx := context.Background()

	first, err := uc.Execute(ctx, &Request{RoomID: clinictest.RoomID, StartAt: clinictest.Monday(9, 0), EndAt: clinictest.Monday(10, 0)})
	require.NoError(t, err)
	second, err := uc.Execute(ctx, &Request{RoomID: clinictest.RoomID, StartAt: clinictest.Monday(10, 0), EndAt: clinictest.Monday(11, 0)})
	require.NoError(t, err)

	_, err = cancel.Execute(ctx, &cancelBooking.Request{BookingID: first.Booking.ID, Kind: ptr.Ptr(domain.SubjectRoom)})
	require.NoError(t, err)
	assert.False(t, c.Room(t, clinictest.RoomID).Available)

	_, err = cancel.Execute(ctx, &cancelBooking.Request{BookingID: second.Booking.ID, Kind: ptr.Ptr(domain.SubjectRoom)})
	require.NoError(t, err)
	assert.True(t, c.Room(t, clinictest.RoomID).Available)
	c.RequireConserved(t)
}

func TestExecute_ParentAppointment(t *testing.T) {
	c := clinictest.New(t, domain.PolicyStrict)
	create := createAppointment.NewUseCase(
		c.Store.Subjects(), c.Store.Schedules(), c.Store.Commitments(),
		c.Detector, c.Capacity, c.Store, nil, clinictest.Location, c.Log,
	).WithTimeProvider(c.Clock)
	cancel := cancelBooking.NewUseCase(c.Store.Commitments(), c.Capacity, c.Store, nil, c.Log).WithTimeProvider(c.Clock)
	uc := newUseCase(c)
	ctx := context.Background()

	created, err := create.Execute(ctx, &createAppointment.Request{
		DoctorID:  clinictest.DoctorID,
		PatientID: clinictest.PatientID,
		StartAt:   clinictest.Monday(10, 0),
	})
	require.NoError(t, err)

	resp, err := uc.Execute(ctx, &Request{
		RoomID:        clinictest.OtherRoomID,
		StartAt:       clinictest.Monday(10, 0),
		EndAt:         clinictest.Monday(10, 30),
		AppointmentID: ptr.Ptr(created.Appointment.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, created.Appointment.ID, ptr.Value(resp.Booking.AppointmentID))

	// Отмена приема освобождает и кабинет, привязанный позже
	_, err = cancel.Execute(ctx, &cancelBooking.Request{BookingID: created.Appointment.ID})
	require.NoError(t, err)
	assert.True(t, c.Room(t, clinictest.OtherRoomID).Available)

	_, err = uc.Execute(ctx, &Request{
		RoomID:        clinictest.RoomID,
		StartAt:       clinictest.Monday(10, 0),
		EndAt:         clinictest.Monday(10, 30),
		AppointmentID: ptr.Ptr(created.Appointment.ID),
	})
	require.ErrorIs(t, err, domain.ErrAlreadyTerminal)
	assert.True(t, c.Room(t, clinictest.RoomID).Available)
	c.RequireConserved(t)
}

func TestExecute_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{
			name:    "zero room",
			req:     Request{StartAt: clinictest.Monday(10, 0), EndAt: clinictest.Monday(11, 0)},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "non positive appointment",
			req: Request{
				RoomID:        clinictest.RoomID,
				StartAt:       clinictest.Monday(10, 0),
				EndAt:         clinictest.Monday(11, 0),
				AppointmentID: ptr.Ptr(int64(0)),
			},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "reversed interval",
			req:     Request{RoomID: clinictest.RoomID, StartAt: clinictest.Monday(11, 0), EndAt: clinictest.Monday(10, 0)},
			wantErr: domain.ErrInvalidRange,
		},
		{
			name:    "unknown room",
			req:     Request{RoomID: 99, StartAt: clinictest.Monday(10, 0), EndAt: clinictest.Monday(11, 0)},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := clinictest.New(t, domain.PolicyStrict)
			req := tt.req
			_, err := newUseCase(c).Execute(context.Background(), &req)
			require.ErrorIs(t, err, tt.wantErr)
			assert.True(t, c.Room(t, clinictest.RoomID).Available)
		})
	}
}
