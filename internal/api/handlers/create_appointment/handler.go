package create_appointment

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-ClinicBooking/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBooking/internal/domain"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStartAt     = "некорректное время начала, ожидается RFC 3339"
	msgNotFound           = "врач, пациент, кабинет или ресурс не найден"
	msgInactive           = "врач или пациент неактивен"
	msgNoScheduleForDay   = "у врача нет расписания на этот день"
	msgMisalignedSlot     = "время не совпадает со свободным слотом расписания"
	msgDoubleBooked       = "выбранное время уже занято"
	msgCapacityExceeded   = "нет свободных единиц ресурса"
	msgInvalidInput       = "некорректные параметры приема"
)

type Handler struct {
	useCase  CreateAppointmentUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase CreateAppointmentUseCase, location *time.Location, logger Logger) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartAt)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBusy):
			h.logger.Warn("POST /appointments - Busy: doctor_id=%d, patient_id=%d", req.DoctorID, req.PatientID)
			handlers.RespondBusy(w)

		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("POST /appointments - Not found: doctor_id=%d, patient_id=%d: %v", req.DoctorID, req.PatientID, err)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrInactive):
			h.logger.Warn("POST /appointments - Inactive subject: doctor_id=%d, patient_id=%d", req.DoctorID, req.PatientID)
			handlers.RespondDomainError(w, err, msgInactive)

		case errors.Is(err, domain.ErrNoScheduleForDay):
			h.logger.Warn("POST /appointments - No schedule: doctor_id=%d, start_at=%s", req.DoctorID, req.StartAt)
			handlers.RespondDomainError(w, err, msgNoScheduleForDay)

		case errors.Is(err, domain.ErrMisalignedSlot):
			h.logger.Warn("POST /appointments - Misaligned slot: doctor_id=%d, start_at=%s", req.DoctorID, req.StartAt)
			handlers.RespondDomainError(w, err, msgMisalignedSlot)

		case errors.Is(err, domain.ErrDoubleBooked):
			h.logger.Warn("POST /appointments - Double booked: doctor_id=%d, start_at=%s", req.DoctorID, req.StartAt)
			handlers.RespondDomainError(w, err, msgDoubleBooked)

		case errors.Is(err, domain.ErrCapacityExceeded):
			h.logger.Warn("POST /appointments - Capacity exceeded: doctor_id=%d, resources=%v", req.DoctorID, req.ResourceIDs)
			handlers.RespondDomainError(w, err, msgCapacityExceeded)

		case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidRange):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondDomainError(w, err, msgInvalidInput)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: doctor_id=%d, patient_id=%d, error=%v",
				req.DoctorID, req.PatientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result, h.location)

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, doctor_id=%d, patient_id=%d",
		result.Appointment.ID, req.DoctorID, req.PatientID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
