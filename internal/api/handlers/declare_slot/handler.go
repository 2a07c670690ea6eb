package declare_slot

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/MediLog-SchedulingService/internal/api/handlers"
	"github.com/m04kA/MediLog-SchedulingService/internal/api/middleware"
	"github.com/m04kA/MediLog-SchedulingService/internal/service/slots"
)

const (
	msgInvalidDoctorID      = "некорректный ID врача"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidData          = "некорректные данные слота"
	msgForbidden            = "доступ запрещен"
	msgDoctorNotFound       = "врач не найден"
	msgInvalidSlot          = "слот вне рабочих часов врача или в прошлом"
	msgSlotExists           = "слот с таким интервалом уже существует"
	msgDirectoryUnavailable = "справочник врачей временно недоступен"
)

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/doctors/{doctorId}/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	doctorID, err := strconv.ParseInt(mux.Vars(r)["doctorId"], 10, 64)
	if err != nil || doctorID <= 0 {
		h.logger.Warn("POST /doctors/{id}/slots - Invalid doctor ID: %s", mux.Vars(r)["doctorId"])
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /doctors/{id}/slots - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req DeclareSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /doctors/{id}/slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Declare(r.Context(), req.ToServiceRequest(actor, doctorID))
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("POST /doctors/{id}/slots - Invalid data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, slots.ErrAccessDenied):
			h.logger.Warn("POST /doctors/{id}/slots - Access denied: doctor_id=%d, %s=%d",
				doctorID, actor.Role, actor.ParticipantID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, slots.ErrDoctorNotFound):
			handlers.RespondNotFound(w, msgDoctorNotFound)

		case errors.Is(err, slots.ErrInvalidSlot):
			h.logger.Warn("POST /doctors/{id}/slots - Slot rejected: doctor_id=%d, error=%v", doctorID, err)
			handlers.RespondUnprocessable(w, msgInvalidSlot)

		case errors.Is(err, slots.ErrSlotAlreadyExists):
			handlers.RespondConflict(w, msgSlotExists)

		case errors.Is(err, slots.ErrDirectoryUnavailable):
			h.logger.Error("POST /doctors/{id}/slots - Doctor directory unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgDirectoryUnavailable)

		default:
			h.logger.Error("POST /doctors/{id}/slots - Failed to declare slot: doctor_id=%d, error=%v", doctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /doctors/{id}/slots - Slot declared: doctor_id=%d, slot_id=%d", doctorID, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
