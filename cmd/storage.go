package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-ClinicBooking/internal/api/handlers/health"
	"github.com/m04kA/SMC-ClinicBooking/internal/config"
	capacityRepo "github.com/m04kA/SMC-ClinicBooking/internal/infra/storage/capacity"
	commitmentRepo "github.com/m04kA/SMC-ClinicBooking/internal/infra/storage/commitment"
	"github.com/m04kA/SMC-ClinicBooking/internal/infra/storage/memory"
	scheduleRepo "github.com/m04kA/SMC-ClinicBooking/internal/infra/storage/schedule"
	subjectRepo "github.com/m04kA/SMC-ClinicBooking/internal/infra/storage/subject"
	bookingsService "github.com/m04kA/SMC-ClinicBooking/internal/service/bookings"
	capacityService "github.com/m04kA/SMC-ClinicBooking/internal/service/capacity"
	"github.com/m04kA/SMC-ClinicBooking/internal/service/conflicts"
	schedulesService "github.com/m04kA/SMC-ClinicBooking/internal/service/schedules"
	bookResourceUC "github.com/m04kA/SMC-ClinicBooking/internal/usecase/book_resource"
	bookRoomUC "github.com/m04kA/SMC-ClinicBooking/internal/usecase/book_room"
	cancelBookingUC "github.com/m04kA/SMC-ClinicBooking/internal/usecase/cancel_booking"
	checkAvailabilityUC "github.com/m04kA/SMC-ClinicBooking/internal/usecase/check_availability"
	createAppointmentUC "github.com/m04kA/SMC-ClinicBooking/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-ClinicBooking/internal/usecase/get_available_slots"
	reconcileExpiredUC "github.com/m04kA/SMC-ClinicBooking/internal/usecase/reconcile_expired"
	rescheduleAppointmentUC "github.com/m04kA/SMC-ClinicBooking/internal/usecase/reschedule_appointment"
	"github.com/m04kA/SMC-ClinicBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicBooking/pkg/logger"
	"github.com/m04kA/SMC-ClinicBooking/pkg/metrics"
	"github.com/m04kA/SMC-ClinicBooking/pkg/txmanager"
)

// Наборы методов, которые должен предоставлять любой движок хранения

type scheduleStore interface {
	schedulesService.ScheduleRepository
	createAppointmentUC.ScheduleRepository
	getAvailableSlotsUC.ScheduleRepository
	rescheduleAppointmentUC.ScheduleRepository
}

type commitmentStore interface {
	bookingsService.CommitmentRepository
	capacityService.CommitmentRepository
	conflicts.CommitmentRepository
	bookRoomUC.CommitmentRepository
	bookResourceUC.CommitmentRepository
	cancelBookingUC.CommitmentRepository
	createAppointmentUC.CommitmentRepository
	getAvailableSlotsUC.CommitmentRepository
	reconcileExpiredUC.CommitmentRepository
	rescheduleAppointmentUC.CommitmentRepository
}

type subjectStore interface {
	bookingsService.SubjectRepository
	capacityService.DoctorRepository
	schedulesService.DoctorRepository
	checkAvailabilityUC.SubjectRepository
	createAppointmentUC.PatientRepository
	getAvailableSlotsUC.DoctorRepository
}

type holderStore interface {
	bookingsService.HolderRepository
	capacityService.HolderRepository
	checkAvailabilityUC.HolderRepository
}

type txManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// storage выбранный движок хранения
type storage struct {
	driver      string
	schedules   scheduleStore
	commitments commitmentStore
	subjects    subjectStore
	holders     holderStore
	tx          txManager
	pinger      health.Pinger // nil для memory
	db          *dbmetrics.DB // nil для memory
	close       func()
}

func openStorage(ctx context.Context, cfg *config.Config, m *metrics.Metrics, log *logger.Logger) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		return openMemory(ctx, cfg, log)
	default:
		return openPostgres(cfg, m, log)
	}
}

func openPostgres(cfg *config.Config, m *metrics.Metrics, log *logger.Logger) (*storage, error) {
	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// При выключенных метриках обёртка работает как прокси
	stopMetricsCh := make(chan struct{})
	wrappedDB := dbmetrics.WrapWithDefault(db, m, cfg.Metrics.ServiceName, stopMetricsCh)

	return &storage{
		driver:      config.StorageDriverPostgres,
		schedules:   scheduleRepo.NewRepository(wrappedDB),
		commitments: commitmentRepo.NewRepository(wrappedDB),
		subjects:    subjectRepo.NewRepository(wrappedDB),
		holders:     capacityRepo.NewRepository(wrappedDB),
		tx:          txmanager.NewTransactionManager(wrappedDB, txmanager.WithLockTimeout(cfg.Database.LockTimeout())),
		pinger:      db,
		db:          wrappedDB,
		close: func() {
			close(stopMetricsCh)
			if err := db.Close(); err != nil {
				log.Error("Failed to close database: %v", err)
			}
		},
	}, nil
}

func openMemory(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	var opts []memory.Option
	if timeout := cfg.Database.LockTimeout(); timeout > 0 {
		opts = append(opts, memory.WithLockTimeout(timeout))
	}
	store := memory.NewStore(opts...)

	if err := store.LoadSeed(ctx, cfg.Storage.SeedFile); err != nil {
		return nil, err
	}
	log.Info("In-memory storage initialized from %s", cfg.Storage.SeedFile)

	return &storage{
		driver:      config.StorageDriverMemory,
		schedules:   store.Schedules(),
		commitments: store.Commitments(),
		subjects:    store.Subjects(),
		holders:     store.Capacity(),
		tx:          store,
		close:       func() {},
	}, nil
}
