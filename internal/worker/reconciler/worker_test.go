package reconciler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBooking/internal/usecase/reconcile_expired"
	"github.com/m04kA/SMC-ClinicBooking/pkg/logger"
)

type fakeUseCase struct {
	mu     sync.Mutex
	calls  []time.Time
	result *reconcile_expired.Response
	err    error
}

func (f *fakeUseCase) Execute(_ context.Context, now time.Time) (*reconcile_expired.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, now)
	return f.result, f.err
}

func (f *fakeUseCase) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

func TestNew_RejectsInvalidSchedule(t *testing.T) {
	_, err := New(&fakeUseCase{}, "every hour", logger.NewNop())
	require.Error(t, err)

	_, err = New(&fakeUseCase{}, "*/5 * * * *", logger.NewNop())
	require.NoError(t, err)
}

func TestRunOnce(t *testing.T) {
	now := time.Date(2030, time.January, 7, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		result        *reconcile_expired.Response
		err           error
		wantReclaimed int
		wantErr       bool
	}{
		{
			name:          "success",
			result:        &reconcile_expired.Response{Now: now, Reclaimed: 3, Failed: 1},
			wantReclaimed: 3,
		},
		{
			name:    "list failure",
			err:     errors.New("connection refused"),
			wantErr: true,
		},
		{
			name:          "stopped midway",
			result:        &reconcile_expired.Response{Now: now, Reclaimed: 2},
			err:           context.Canceled,
			wantReclaimed: 2,
			wantErr:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{result: tt.result, err: tt.err}
			w, err := New(uc, "@hourly", logger.NewNop())
			require.NoError(t, err)
			w.WithTimeProvider(fixedClock(now))

			reclaimed, err := w.RunOnce(context.Background())
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantReclaimed, reclaimed)
			require.Len(t, uc.calls, 1)
			assert.True(t, uc.calls[0].Equal(now))
		})
	}
}

func TestStartStop(t *testing.T) {
	uc := &fakeUseCase{result: &reconcile_expired.Response{}}
	w, err := New(uc, "@every 1s", logger.NewNop())
	require.NoError(t, err)

	w.Start(context.Background())
	assert.Eventually(t, func() bool { return uc.callCount() > 0 }, 3*time.Second, 50*time.Millisecond)
	w.Stop()

	calls := uc.callCount()
	time.Sleep(1200 * time.Millisecond)
	assert.Equal(t, calls, uc.callCount())
}

func TestFormatKeysAndValues(t *testing.T) {
	assert.Equal(t, "", formatKeysAndValues(nil))
	assert.Equal(t, " now=1 entry=2", formatKeysAndValues([]interface{}{"now", 1, "entry", 2}))
	// Непарный хвост отбрасывается
	assert.Equal(t, " now=1", formatKeysAndValues([]interface{}{"now", 1, "entry"}))
}
