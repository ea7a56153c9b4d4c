// Package clinictest собирает клинику в памяти для тестов use case и сервисов
package clinictest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
	"github.com/m04kA/SMC-ClinicBooking/internal/infra/storage/memory"
	capacityService "github.com/m04kA/SMC-ClinicBooking/internal/service/capacity"
	"github.com/m04kA/SMC-ClinicBooking/internal/service/conflicts"
	"github.com/m04kA/SMC-ClinicBooking/pkg/logger"
	"github.com/m04kA/SMC-ClinicBooking/pkg/types"
)

const (
	DoctorID            int64 = 1 // Активный врач, понедельник 09:00-12:00 по 30 минут
	InactiveDoctorID    int64 = 2 // Отключенный врач с тем же расписанием
	UnscheduledDoctorID int64 = 3 // Активный врач без расписания

	PatientID         int64 = 1
	InactivePatientID int64 = 2

	RoomID      int64 = 1
	OtherRoomID int64 = 2

	ResourceID       int64 = 1 // TotalQuantity = 2
	SingleResourceID int64 = 2 // TotalQuantity = 1
)

// Location фиксированная зона клиники, UTC+3
var Location = time.FixedZone("MSK", 3*60*60)

// Monday время в понедельник 2030-01-07 по часам клиники
func Monday(hour, minute int) time.Time {
	return time.Date(2030, time.January, 7, hour, minute, 0, 0, Location)
}

// Tuesday время во вторник 2030-01-08, на который расписания нет
func Tuesday(hour, minute int) time.Time {
	return time.Date(2030, time.January, 8, hour, minute, 0, 0, Location)
}

// Clock фиксированный источник времени
type Clock struct {
	At time.Time
}

// Now возвращает зафиксированное время
func (c *Clock) Now() time.Time {
	return c.At
}

// Clinic хранилище и сервисы, собранные поверх него
type Clinic struct {
	Store    *memory.Store
	Detector *conflicts.Detector
	Capacity *capacityService.Service
	Clock    *Clock
	Log      *logger.Logger
}

// New создает клинику с заполненным справочником; "сейчас" - воскресенье перед понедельником
func New(t testing.TB, policy domain.ResourcePolicy) *Clinic {
	t.Helper()

	ctx := context.Background()
	store := memory.NewStore(memory.WithLockTimeout(time.Second))
	log := logger.NewNop()

	require.NoError(t, store.PutDoctor(ctx, domain.Doctor{ID: DoctorID, FullName: "Иванов И.И.", Specialization: "терапевт", Active: true}))
	require.NoError(t, store.PutDoctor(ctx, domain.Doctor{ID: InactiveDoctorID, FullName: "Петров П.П.", Specialization: "хирург"}))
	require.NoError(t, store.PutDoctor(ctx, domain.Doctor{ID: UnscheduledDoctorID, FullName: "Сидоров С.С.", Specialization: "лор", Active: true}))

	require.NoError(t, store.PutPatient(ctx, domain.Patient{ID: PatientID, FullName: "Смирнова А.А.", Active: true}))
	require.NoError(t, store.PutPatient(ctx, domain.Patient{ID: InactivePatientID, FullName: "Кузнецов Б.Б."}))

	require.NoError(t, store.PutRoom(ctx, domain.Room{ID: RoomID, RoomNumber: "101", RoomType: "процедурный", Available: true}))
	require.NoError(t, store.PutRoom(ctx, domain.Room{ID: OtherRoomID, RoomNumber: "102", RoomType: "смотровой", Available: true}))

	require.NoError(t, store.PutResource(ctx, domain.Resource{ID: ResourceID, Name: "УЗИ-аппарат", Quantity: 2, TotalQuantity: 2}))
	require.NoError(t, store.PutResource(ctx, domain.Resource{ID: SingleResourceID, Name: "ЭКГ", Quantity: 1, TotalQuantity: 1}))

	for _, doctorID := range []int64{DoctorID, InactiveDoctorID} {
		_, err := store.Schedules().Create(ctx, &domain.ScheduleTemplate{
			DoctorID:            doctorID,
			DayOfWeek:           domain.Monday,
			StartTime:           types.TimeString("09:00"),
			EndTime:             types.TimeString("12:00"),
			SlotDurationMinutes: 30,
		})
		require.NoError(t, err)
	}

	return &Clinic{
		Store:    store,
		Detector: conflicts.NewDetector(store.Commitments(), policy, log),
		Capacity: capacityService.NewService(store.Capacity(), store.Subjects(), store.Commitments(), log),
		Clock:    &Clock{At: time.Date(2030, time.January, 6, 12, 0, 0, 0, Location)},
		Log:      log,
	}
}

// Resource текущее состояние ресурса
func (c *Clinic) Resource(t testing.TB, id int64) *domain.Resource {
	t.Helper()
	res, err := c.Store.Capacity().GetResource(context.Background(), id)
	require.NoError(t, err)
	return res
}

// Room текущее состояние кабинета
func (c *Clinic) Room(t testing.TB, id int64) *domain.Room {
	t.Helper()
	room, err := c.Store.Capacity().GetRoom(context.Background(), id)
	require.NoError(t, err)
	return room
}

// Booking текущее состояние брони
func (c *Clinic) Booking(t testing.TB, id int64) *domain.Commitment {
	t.Helper()
	booking, err := c.Store.Commitments().GetByID(context.Background(), id)
	require.NoError(t, err)
	return booking
}

// ActiveCount число активных броней субъекта
func (c *Clinic) ActiveCount(t testing.TB, kind domain.SubjectKind, id int64) int {
	t.Helper()
	count, err := c.Store.Commitments().CountActiveBySubject(context.Background(), kind, id)
	require.NoError(t, err)
	return count
}

// RequireConserved проверяет Quantity + активные брони == TotalQuantity
// и недоступность кабинета ровно при наличии активных броней
func (c *Clinic) RequireConserved(t testing.TB) {
	t.Helper()
	for _, id := range []int64{ResourceID, SingleResourceID} {
		res := c.Resource(t, id)
		require.Equal(t, res.TotalQuantity, res.Quantity+c.ActiveCount(t, domain.SubjectResource, id),
			"resource id=%d", id)
	}
	for _, id := range []int64{RoomID, OtherRoomID} {
		room := c.Room(t, id)
		require.Equal(t, c.ActiveCount(t, domain.SubjectRoom, id) == 0, room.Available, "room id=%d", id)
	}
}
