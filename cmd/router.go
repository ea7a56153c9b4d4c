package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	bookResourceHandler "github.com/m04kA/SMC-ClinicBooking/internal/api/handlers/book_resource"
	bookRoomHandler "github.com/m04kA/SMC-ClinicBooking/internal/api/handlers/book_room"
	cancelBookingHandler "github.com/m04kA/SMC-ClinicBooking/internal/api/handlers/cancel_booking"
	checkAvailabilityHandler "github.com/m04kA/SMC-ClinicBooking/internal/api/handlers/check_availability"
	createAppointmentHandler "github.com/m04kA/SMC-ClinicBooking/internal/api/handlers/create_appointment"
	createScheduleHandler "github.com/m04kA/SMC-ClinicBooking/internal/api/handlers/create_schedule"
	deleteScheduleHandler "github.com/m04kA/SMC-ClinicBooking/internal/api/handlers/delete_schedule"
	getAvailableSlotsHandler "github.com/m04kA/SMC-ClinicBooking/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-ClinicBooking/internal/api/handlers/get_booking"
	getDoctorSchedulesHandler "github.com/m04kA/SMC-ClinicBooking/internal/api/handlers/get_doctor_schedules"
	getPatientBookingsHandler "github.com/m04kA/SMC-ClinicBooking/internal/api/handlers/get_patient_bookings"
	getScheduleHandler "github.com/m04kA/SMC-ClinicBooking/internal/api/handlers/get_schedule"
	getSubjectBookingsHandler "github.com/m04kA/SMC-ClinicBooking/internal/api/handlers/get_subject_bookings"
	"github.com/m04kA/SMC-ClinicBooking/internal/api/handlers/health"
	rescheduleAppointmentHandler "github.com/m04kA/SMC-ClinicBooking/internal/api/handlers/reschedule_appointment"
	updateScheduleHandler "github.com/m04kA/SMC-ClinicBooking/internal/api/handlers/update_schedule"
	"github.com/m04kA/SMC-ClinicBooking/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
)

func newRouter(a *app) *mux.Router {
	log := a.log

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(a.getAvailableSlots, a.location, log)
	createAppointment := createAppointmentHandler.NewHandler(a.createAppointment, a.location, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(a.rescheduleAppointment, a.location, log)
	cancelAppointment := cancelBookingHandler.NewHandler(a.cancelBooking, domain.SubjectDoctor, a.location, log)
	cancelRoomBooking := cancelBookingHandler.NewHandler(a.cancelBooking, domain.SubjectRoom, a.location, log)
	cancelResourceBooking := cancelBookingHandler.NewHandler(a.cancelBooking, domain.SubjectResource, a.location, log)
	bookRoom := bookRoomHandler.NewHandler(a.bookRoom, a.location, log)
	bookResource := bookResourceHandler.NewHandler(a.bookResource, a.location, log)
	checkAvailability := checkAvailabilityHandler.NewHandler(a.checkAvailability, log)
	getBooking := getBookingHandler.NewHandler(a.bookings, log)
	getDoctorBookings := getSubjectBookingsHandler.NewHandler(a.bookings, domain.SubjectDoctor, log)
	getRoomBookings := getSubjectBookingsHandler.NewHandler(a.bookings, domain.SubjectRoom, log)
	getResourceBookings := getSubjectBookingsHandler.NewHandler(a.bookings, domain.SubjectResource, log)
	getPatientBookings := getPatientBookingsHandler.NewHandler(a.bookings, log)
	createSchedule := createScheduleHandler.NewHandler(a.schedules, log)
	getSchedule := getScheduleHandler.NewHandler(a.schedules, log)
	updateSchedule := updateScheduleHandler.NewHandler(a.schedules, log)
	deleteSchedule := deleteScheduleHandler.NewHandler(a.schedules, log)
	getDoctorSchedules := getDoctorSchedulesHandler.NewHandler(a.schedules, log)
	healthCheck := health.NewHandler(a.storage.pinger, a.storage.driver, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if a.metrics != nil {
		r.Use(middleware.MetricsMiddleware(a.metrics, a.cfg.Metrics.ServiceName))
		r.Handle(a.cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", a.cfg.Metrics.Path)
	}

	r.HandleFunc("/health", healthCheck.Handle).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.RateLimit(a.cfg.RateLimit.RPS, a.cfg.RateLimit.Burst, log))

	// --- Слоты и доступность ---
	api.HandleFunc("/doctors/{doctorId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/availability", checkAvailability.Handle).Methods(http.MethodGet)

	// --- Приемы ---
	api.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	api.HandleFunc("/appointments/{bookingId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/appointments/{appointmentId}/reschedule", rescheduleAppointment.Handle).Methods(http.MethodPatch)

	// --- Кабинеты и ресурсы ---
	api.HandleFunc("/room-bookings", bookRoom.Handle).Methods(http.MethodPost)
	api.HandleFunc("/room-bookings/{bookingId}/cancel", cancelRoomBooking.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/resource-bookings", bookResource.Handle).Methods(http.MethodPost)
	api.HandleFunc("/resource-bookings/{bookingId}/cancel", cancelResourceBooking.Handle).Methods(http.MethodPatch)

	// --- Чтение броней ---
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{subjectId}/bookings", getDoctorBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{subjectId}/bookings", getRoomBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/resources/{subjectId}/bookings", getResourceBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/patients/{patientId}/bookings", getPatientBookings.Handle).Methods(http.MethodGet)

	// --- Расписания врачей ---
	api.HandleFunc("/doctor-schedules", createSchedule.Handle).Methods(http.MethodPost)
	api.HandleFunc("/doctor-schedules/{scheduleId}", getSchedule.Handle).Methods(http.MethodGet)
	api.HandleFunc("/doctor-schedules/{scheduleId}", updateSchedule.Handle).Methods(http.MethodPut)
	api.HandleFunc("/doctor-schedules/{scheduleId}", deleteSchedule.Handle).Methods(http.MethodDelete)
	api.HandleFunc("/doctors/{doctorId}/schedules", getDoctorSchedules.Handle).Methods(http.MethodGet)

	return r
}
