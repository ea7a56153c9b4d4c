package main

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/config"
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
	"github.com/m04kA/SMC-ClinicBooking/pkg/logger"
	"github.com/m04kA/SMC-ClinicBooking/pkg/metrics"
)

// app собранные зависимости сервиса
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	metrics  *metrics.Metrics
	storage  *storage
	location *time.Location

	bookings  *bookingsService.Service
	schedules *schedulesService.Service

	createAppointment     *createAppointmentUC.UseCase
	getAvailableSlots     *getAvailableSlotsUC.UseCase
	cancelBooking         *cancelBookingUC.UseCase
	rescheduleAppointment *rescheduleAppointmentUC.UseCase
	bookRoom              *bookRoomUC.UseCase
	bookResource          *bookResourceUC.UseCase
	checkAvailability     *checkAvailabilityUC.UseCase
	reconcileExpired      *reconcileExpiredUC.UseCase
}

func newApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*app, error) {
	location, err := cfg.Arbiter.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid timezone: %w", err)
	}
	policy, err := cfg.Arbiter.Policy()
	if err != nil {
		return nil, fmt.Errorf("invalid resource policy: %w", err)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	store, err := openStorage(ctx, cfg, metricsCollector, log)
	if err != nil {
		return nil, err
	}

	// Инициализируем сервисы
	detector := conflicts.NewDetector(store.commitments, policy, log)
	capacity := capacityService.NewService(store.holders, store.subjects, store.commitments, log)
	bookings := bookingsService.NewService(store.commitments, store.subjects, store.holders, location, log)
	schedules := schedulesService.NewService(store.schedules, store.subjects, log)

	a := &app{
		cfg:       cfg,
		log:       log,
		metrics:   metricsCollector,
		storage:   store,
		location:  location,
		bookings:  bookings,
		schedules: schedules,
	}

	// Инициализируем use cases
	a.createAppointment = createAppointmentUC.NewUseCase(
		store.subjects,
		store.schedules,
		store.commitments,
		detector,
		capacity,
		store.tx,
		metricsCollector,
		location,
		log,
	)
	a.getAvailableSlots = getAvailableSlotsUC.NewUseCase(
		store.subjects,
		store.schedules,
		store.commitments,
		location,
		log,
	)
	a.cancelBooking = cancelBookingUC.NewUseCase(
		store.commitments,
		capacity,
		store.tx,
		metricsCollector,
		log,
	)
	a.rescheduleAppointment = rescheduleAppointmentUC.NewUseCase(
		store.schedules,
		store.commitments,
		detector,
		capacity,
		store.tx,
		metricsCollector,
		location,
		log,
	)
	a.bookRoom = bookRoomUC.NewUseCase(
		store.commitments,
		detector,
		capacity,
		store.tx,
		metricsCollector,
		log,
	)
	a.bookResource = bookResourceUC.NewUseCase(
		store.commitments,
		detector,
		capacity,
		store.tx,
		metricsCollector,
		log,
	)
	a.checkAvailability = checkAvailabilityUC.NewUseCase(
		store.subjects,
		store.holders,
		detector,
		log,
	)
	a.reconcileExpired = reconcileExpiredUC.NewUseCase(
		store.commitments,
		capacity,
		store.tx,
		metricsCollector,
		cfg.Reconciler.BatchSize,
		log,
	)

	log.Info("Application initialized (storage=%s, timezone=%s, resource_policy=%s)",
		store.driver, location, policy)
	return a, nil
}

func (a *app) Close() {
	a.storage.close()
}
