package update_schedule_config

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/MediLog-SchedulingService/internal/api/handlers"
	"github.com/m04kA/MediLog-SchedulingService/internal/api/middleware"
	"github.com/m04kA/MediLog-SchedulingService/internal/service/schedule"
)

const (
	msgInvalidDoctorID    = "некорректный ID врача"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgForbidden          = "доступ запрещен"
	msgInvalidData        = "некорректные данные конфигурации"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/doctors/{doctorId}/schedule-config
// и PUT /api/v1/admin/schedule-config (глобальная конфигурация)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var doctorID *int64
	if raw, ok := mux.Vars(r)["doctorId"]; ok {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			h.logger.Warn("PUT schedule-config - Invalid doctor ID: %s", raw)
			handlers.RespondBadRequest(w, msgInvalidDoctorID)
			return
		}
		doctorID = &id
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PUT schedule-config - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateScheduleConfigRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT schedule-config - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Сервис сам проверит права
	result, err := h.service.Update(r.Context(), req.ToServiceRequest(actor, doctorID))
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("PUT schedule-config - Access denied: doctor_id=%v, %s=%d",
				doctorID, actor.Role, actor.ParticipantID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT schedule-config - Invalid data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("PUT schedule-config - Failed to update config: doctor_id=%v, error=%v", doctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT schedule-config - Config updated: config_id=%d, level=%s", result.ID, result.Level)
	handlers.RespondJSON(w, http.StatusOK, result)
}
