package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
	capacityRepo "github.com/m04kA/SMC-ClinicBooking/internal/infra/storage/capacity"
)

var monday = time.Date(2030, time.January, 7, 9, 0, 0, 0, time.UTC)

func createBooking(t *testing.T, s *Store, kind domain.SubjectKind, id int64, fromMin, toMin int) *domain.Commitment {
	t.Helper()
	c, err := s.Commitments().Create(context.Background(), &domain.Commitment{
		SubjectKind: kind,
		SubjectID:   id,
		StartAt:     monday.Add(time.Duration(fromMin) * time.Minute),
		EndAt:       monday.Add(time.Duration(toMin) * time.Minute),
		Status:      domain.StatusBooked,
	})
	require.NoError(t, err)
	return c
}

func TestDoSerializable_RollsBackOnError(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.PutResource(ctx, domain.Resource{ID: 1, Quantity: 2, TotalQuantity: 2}))

	failure := errors.New("room locked")
	err := s.DoSerializable(ctx, func(txCtx context.Context) error {
		if _, err := s.Capacity().AdjustResourceQuantity(txCtx, 1, -1); err != nil {
			return err
		}
		if _, err := s.Commitments().Create(txCtx, &domain.Commitment{
			SubjectKind: domain.SubjectResource,
			SubjectID:   1,
			StartAt:     monday,
			EndAt:       monday.Add(30 * time.Minute),
			Status:      domain.StatusBooked,
		}); err != nil {
			return err
		}
		return failure
	})
	require.ErrorIs(t, err, failure)

	res, err := s.Capacity().GetResource(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Quantity)

	// Счетчик id тоже откатывается
	booking := createBooking(t, s, domain.SubjectResource, 1, 0, 30)
	assert.Equal(t, int64(1), booking.ID)
}

func TestDoSerializable_BusyWhileHeld(t *testing.T) {
	s := NewStore(WithLockTimeout(50 * time.Millisecond))
	ctx := context.Background()

	entered := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_ = s.DoSerializable(ctx, func(context.Context) error {
			close(entered)
			<-done
			return nil
		})
	}()
	<-entered

	err := s.DoSerializable(ctx, func(context.Context) error { return nil })
	require.ErrorIs(t, err, domain.ErrBusy)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = s.Commitments().GetByID(cancelled, 1)
	require.ErrorIs(t, err, context.Canceled)

	close(done)
	require.Eventually(t, func() bool {
		return s.DoSerializable(ctx, func(context.Context) error { return nil }) == nil
	}, time.Second, 10*time.Millisecond)
}

func TestTransitionStatus(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	booking := createBooking(t, s, domain.SubjectRoom, 1, 0, 30)
	at := time.Date(2030, time.January, 7, 12, 0, 0, 0, time.FixedZone("MSK", 3*3600))

	_, err := s.Commitments().TransitionStatus(ctx, booking.ID, domain.StatusBooked, at)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	changed, err := s.Commitments().TransitionStatus(ctx, booking.ID, domain.StatusCompleted, at)
	require.NoError(t, err)
	assert.True(t, changed)

	stored, err := s.Commitments().GetByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, stored.Status)
	require.NotNil(t, stored.CompletedAt)
	assert.Equal(t, time.UTC, stored.CompletedAt.Location())
	assert.Nil(t, stored.CancelledAt)

	// Терминальная бронь не меняется
	changed, err = s.Commitments().TransitionStatus(ctx, booking.ID, domain.StatusCancelled, at)
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = s.Commitments().TransitionStatus(ctx, 999, domain.StatusCancelled, at)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestListExpiredIDs(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	first := createBooking(t, s, domain.SubjectRoom, 1, 0, 30)
	second := createBooking(t, s, domain.SubjectDoctor, 1, 0, 60)
	createBooking(t, s, domain.SubjectRoom, 2, 30, 120)
	cancelled := createBooking(t, s, domain.SubjectRoom, 3, 0, 30)
	_, err := s.Commitments().TransitionStatus(ctx, cancelled.ID, domain.StatusCancelled, monday)
	require.NoError(t, err)

	now := monday.Add(time.Hour)

	page, err := s.Commitments().ListExpiredIDs(ctx, now, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{first.ID}, page)

	page, err = s.Commitments().ListExpiredIDs(ctx, now, first.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{second.ID}, page)

	page, err = s.Commitments().ListExpiredIDs(ctx, monday.Add(29*time.Minute), 0, 10)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestAdjustResourceQuantity_Bounds(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.PutResource(ctx, domain.Resource{ID: 1, Quantity: 1, TotalQuantity: 1}))

	_, err := s.Capacity().AdjustResourceQuantity(ctx, 1, 1)
	require.ErrorIs(t, err, capacityRepo.ErrQuantityOutOfRange)

	res, err := s.Capacity().AdjustResourceQuantity(ctx, 1, -1)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Quantity)

	_, err = s.Capacity().AdjustResourceQuantity(ctx, 1, -1)
	require.ErrorIs(t, err, capacityRepo.ErrQuantityOutOfRange)

	_, err = s.Capacity().AdjustResourceQuantity(ctx, 2, -1)
	require.ErrorIs(t, err, capacityRepo.ErrResourceNotFound)
}

func TestLoadSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[[doctors]]
id = 7
full_name = "Anna Petrova"
specialization = "cardiology"
active = true

[[rooms]]
id = 3
room_number = "101"
room_type = "consultation"

[[resources]]
id = 4
name = "ECG machine"
quantity = 2
`), 0o600))

	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.LoadSeed(ctx, path))

	doctor, err := s.Subjects().GetDoctor(ctx, 7)
	require.NoError(t, err)
	assert.True(t, doctor.Active)

	room, err := s.Capacity().GetRoom(ctx, 3)
	require.NoError(t, err)
	assert.True(t, room.Available)

	res, err := s.Capacity().GetResource(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalQuantity)
	assert.Equal(t, 2, res.Quantity)

	require.Error(t, s.LoadSeed(ctx, filepath.Join(t.TempDir(), "missing.toml")))
}
