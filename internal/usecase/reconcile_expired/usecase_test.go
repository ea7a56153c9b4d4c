package reconcile_expired

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBooking/internal/clinictest"
	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
	bookResource "github.com/m04kA/SMC-ClinicBooking/internal/usecase/book_resource"
	bookRoom "github.com/m04kA/SMC-ClinicBooking/internal/usecase/book_room"
	cancelBooking "github.com/m04kA/SMC-ClinicBooking/internal/usecase/cancel_booking"
	createAppointment "github.com/m04kA/SMC-ClinicBooking/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-ClinicBooking/pkg/ptr"
)

// recorder запоминает последний проход
type recorder struct {
	calls             int
	reclaimed, failed int
}

func (r *recorder) RecordReconcile(reclaimed, failed int, _ float64) {
	r.calls++
	r.reclaimed, r.failed = reclaimed, failed
}

// flakyCapacity не возвращает емкость указанного ресурса
type flakyCapacity struct {
	CapacityService
	brokenResourceID int64
}

func (f *flakyCapacity) Release(ctx context.Context, kind domain.SubjectKind, subjectID int64) error {
	if kind == domain.SubjectResource && subjectID == f.brokenResourceID {
		return errors.New("release failed")
	}
	return f.CapacityService.Release(ctx, kind, subjectID)
}

// seed заводит прием с кабинетом и ресурсом в 10:00, отдельные брони кабинета и ресурса до 11:00
// и отмененный прием в 09:00
func seed(t *testing.T, c *clinictest.Clinic) *createAppointment.Response {
	t.Helper()
	ctx := context.Background()

	create := createAppointment.NewUseCase(
		c.Store.Subjects(), c.Store.Schedules(), c.Store.Commitments(),
		c.Detector, c.Capacity, c.Store, nil, clinictest.Location, c.Log,
	).WithTimeProvider(c.Clock)
	appointment, err := create.Execute(ctx, &createAppointment.Request{
		DoctorID:    clinictest.DoctorID,
		PatientID:   clinictest.PatientID,
		StartAt:     clinictest.Monday(10, 0),
		RoomID:      ptr.Ptr(clinictest.RoomID),
		ResourceIDs: []int64{clinictest.ResourceID},
	})
	require.NoError(t, err)

	rooms := bookRoom.NewUseCase(c.Store.Commitments(), c.Detector, c.Capacity, c.Store, nil, c.Log)
	_, err = rooms.Execute(ctx, &bookRoom.Request{
		RoomID:  clinictest.OtherRoomID,
		StartAt: clinictest.Monday(9, 0),
		EndAt:   clinictest.Monday(11, 0),
	})
	require.NoError(t, err)

	resources := bookResource.NewUseCase(c.Store.Commitments(), c.Detector, c.Capacity, c.Store, nil, c.Log)
	_, err = resources.Execute(ctx, &bookResource.Request{
		ResourceID: clinictest.SingleResourceID,
		StartAt:    clinictest.Monday(9, 0),
		EndAt:      clinictest.Monday(11, 0),
	})
	require.NoError(t, err)

	cancelled, err := create.Execute(ctx, &createAppointment.Request{
		DoctorID:  clinictest.DoctorID,
		PatientID: clinictest.PatientID,
		StartAt:   clinictest.Monday(9, 0),
	})
	require.NoError(t, err)
	cancel := cancelBooking.NewUseCase(c.Store.Commitments(), c.Capacity, c.Store, nil, c.Log)
	_, err = cancel.Execute(ctx, &cancelBooking.Request{BookingID: cancelled.Appointment.ID})
	require.NoError(t, err)

	return appointment
}

func TestExecute_CompletesExpiredAndConverges(t *testing.T) {
	c := clinictest.New(t, domain.PolicyStrict)
	appointment := seed(t, c)
	rec := &recorder{}
	uc := NewUseCase(c.Store.Commitments(), c.Capacity, c.Store, rec, 2, c.Log)
	ctx := context.Background()

	// Брони, заканчивающиеся позже now, не трогаются
	resp, err := uc.Execute(ctx, clinictest.Monday(10, 29))
	require.NoError(t, err)
	assert.Zero(t, resp.Reclaimed)
	assert.Zero(t, resp.Failed)

	// end_at == now считается истекшим
	resp, err = uc.Execute(ctx, clinictest.Monday(10, 30))
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Reclaimed)
	assert.Zero(t, resp.Failed)
	assert.Equal(t, 2, rec.calls)
	assert.Equal(t, 3, rec.reclaimed)

	for _, id := range []int64{appointment.Appointment.ID, appointment.RoomBooking.ID, appointment.ResourceBookings[0].ID} {
		assert.Equal(t, domain.StatusCompleted, c.Booking(t, id).Status, "booking id=%d", id)
	}
	assert.True(t, c.Room(t, clinictest.RoomID).Available)
	assert.Equal(t, 2, c.Resource(t, clinictest.ResourceID).Quantity)
	assert.False(t, c.Room(t, clinictest.OtherRoomID).Available)
	c.RequireConserved(t)

	// Отдельные брони до 11:00; повторный проход ничего не находит
	resp, err = uc.Execute(ctx, clinictest.Monday(12, 0))
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Reclaimed)

	resp, err = uc.Execute(ctx, clinictest.Monday(12, 0))
	require.NoError(t, err)
	assert.Zero(t, resp.Reclaimed)

	assert.True(t, c.Room(t, clinictest.OtherRoomID).Available)
	assert.Equal(t, 1, c.Resource(t, clinictest.SingleResourceID).Quantity)
	c.RequireConserved(t)
}

func TestExecute_FailureDoesNotStopSweep(t *testing.T) {
	c := clinictest.New(t, domain.PolicyStrict)
	seed(t, c)
	ctx := context.Background()
	now := clinictest.Monday(12, 0)

	flaky := &flakyCapacity{CapacityService: c.Capacity, brokenResourceID: clinictest.ResourceID}
	uc := NewUseCase(c.Store.Commitments(), flaky, c.Store, nil, 1, c.Log)

	resp, err := uc.Execute(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Reclaimed)
	assert.Equal(t, 1, resp.Failed)

	// Неудачная бронь откатилась целиком и осталась активной
	assert.Equal(t, 1, c.ActiveCount(t, domain.SubjectResource, clinictest.ResourceID))
	c.RequireConserved(t)

	// Следующий проход с исправной емкостью доводит состояние до конца
	uc = NewUseCase(c.Store.Commitments(), c.Capacity, c.Store, nil, 1, c.Log)
	resp, err = uc.Execute(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Reclaimed)
	assert.Zero(t, resp.Failed)
	assert.Equal(t, 2, c.Resource(t, clinictest.ResourceID).Quantity)
	c.RequireConserved(t)
}

func TestExecute_StopsOnCancelledContext(t *testing.T) {
	c := clinictest.New(t, domain.PolicyStrict)
	seed(t, c)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	uc := NewUseCase(c.Store.Commitments(), c.Capacity, c.Store, nil, 0, c.Log)
	resp, err := uc.Execute(ctx, clinictest.Monday(12, 0))
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, resp.Reclaimed)
	c.RequireConserved(t)
}
