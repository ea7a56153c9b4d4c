package schedules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBooking/internal/clinictest"
	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
	"github.com/m04kA/SMC-ClinicBooking/internal/service/schedules/models"
	"github.com/m04kA/SMC-ClinicBooking/pkg/ptr"
)

func newService(t *testing.T) *Service {
	t.Helper()
	c := clinictest.New(t, domain.PolicyStrict)
	return NewService(c.Store.Schedules(), c.Store.Subjects(), c.Log)
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name    string
		req     models.CreateScheduleRequest
		wantErr error
	}{
		{
			name: "lowercase day",
			req: models.CreateScheduleRequest{
				DoctorID: clinictest.UnscheduledDoctorID, DayOfWeek: "friday",
				StartTime: "08:00", EndTime: "14:00", SlotDurationMinutes: 20,
			},
		},
		{
			name: "unknown day",
			req: models.CreateScheduleRequest{
				DoctorID: clinictest.UnscheduledDoctorID, DayOfWeek: "funday",
				StartTime: "08:00", EndTime: "14:00", SlotDurationMinutes: 20,
			},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "end before start",
			req: models.CreateScheduleRequest{
				DoctorID: clinictest.UnscheduledDoctorID, DayOfWeek: "MONDAY",
				StartTime: "14:00", EndTime: "08:00", SlotDurationMinutes: 20,
			},
			wantErr: domain.ErrInvalidRange,
		},
		{
			name: "malformed time",
			req: models.CreateScheduleRequest{
				DoctorID: clinictest.UnscheduledDoctorID, DayOfWeek: "MONDAY",
				StartTime: "8am", EndTime: "14:00", SlotDurationMinutes: 20,
			},
			wantErr: domain.ErrInvalidRange,
		},
		{
			name: "slot too short",
			req: models.CreateScheduleRequest{
				DoctorID: clinictest.UnscheduledDoctorID, DayOfWeek: "MONDAY",
				StartTime: "08:00", EndTime: "14:00", SlotDurationMinutes: 5,
			},
			wantErr: domain.ErrInvalidRange,
		},
		{
			name: "unknown doctor",
			req: models.CreateScheduleRequest{
				DoctorID: 99, DayOfWeek: "MONDAY",
				StartTime: "08:00", EndTime: "14:00", SlotDurationMinutes: 20,
			},
			wantErr: ErrDoctorNotFound,
		},
		{
			name: "duplicate day",
			req: models.CreateScheduleRequest{
				DoctorID: clinictest.DoctorID, DayOfWeek: "MONDAY",
				StartTime: "13:00", EndTime: "18:00", SlotDurationMinutes: 30,
			},
			wantErr: ErrScheduleAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(t)
			req := tt.req
			resp, err := svc.Create(context.Background(), &req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, resp)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, resp.ID)
			assert.Equal(t, "FRIDAY", resp.DayOfWeek)
			assert.Equal(t, "08:00", resp.StartTime)
			assert.Equal(t, "14:00", resp.EndTime)
		})
	}
}

func TestScheduleLifecycle(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &models.CreateScheduleRequest{
		DoctorID: clinictest.DoctorID, DayOfWeek: "WEDNESDAY",
		StartTime: "10:00", EndTime: "16:00", SlotDurationMinutes: 45,
	})
	require.NoError(t, err)

	list, err := svc.ListByDoctor(ctx, clinictest.DoctorID)
	require.NoError(t, err)
	require.Len(t, list.Schedules, 2)
	assert.Equal(t, "MONDAY", list.Schedules[0].DayOfWeek)
	assert.Equal(t, "WEDNESDAY", list.Schedules[1].DayOfWeek)

	// Перенос на понедельник конфликтует с существующим шаблоном
	_, err = svc.Update(ctx, created.ID, &models.UpdateScheduleRequest{DayOfWeek: ptr.Ptr("MONDAY")})
	require.ErrorIs(t, err, ErrScheduleAlreadyExists)

	// Тот же день у самого шаблона не считается дубликатом
	updated, err := svc.Update(ctx, created.ID, &models.UpdateScheduleRequest{
		DayOfWeek:           ptr.Ptr("WEDNESDAY"),
		SlotDurationMinutes: ptr.Ptr(30),
	})
	require.NoError(t, err)
	assert.Equal(t, 30, updated.SlotDurationMinutes)
	assert.Equal(t, "10:00", updated.StartTime)

	_, err = svc.Update(ctx, created.ID, &models.UpdateScheduleRequest{EndTime: ptr.Ptr("09:00")})
	require.ErrorIs(t, err, domain.ErrInvalidRange)

	stored, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, stored.SlotDurationMinutes)
	assert.Equal(t, "WEDNESDAY", stored.DayOfWeek)

	require.NoError(t, svc.Delete(ctx, created.ID))
	require.ErrorIs(t, svc.Delete(ctx, created.ID), ErrScheduleNotFound)

	_, err = svc.GetByID(ctx, created.ID)
	require.ErrorIs(t, err, ErrScheduleNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListByDoctor_UnknownDoctor(t *testing.T) {
	svc := newService(t)

	_, err := svc.ListByDoctor(context.Background(), 99)
	require.ErrorIs(t, err, ErrDoctorNotFound)

	list, err := svc.ListByDoctor(context.Background(), clinictest.UnscheduledDoctorID)
	require.NoError(t, err)
	assert.NotNil(t, list.Schedules)
	assert.Empty(t, list.Schedules)
}
