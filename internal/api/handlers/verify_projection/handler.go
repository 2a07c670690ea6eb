package verify_projection

import (
	"errors"
	"net/http"

	"github.com/m04kA/MediLog-SchedulingService/internal/api/handlers"
	"github.com/m04kA/MediLog-SchedulingService/internal/api/middleware"
	"github.com/m04kA/MediLog-SchedulingService/internal/service/appointments"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgForbidden     = "доступ только для администратора"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/projections/verify
// Перестраивает проекцию из журнала и сверяет её со счётчиками слотов
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /admin/projections/verify - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	report, err := h.service.VerifyReplay(r.Context(), actor)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("POST /admin/projections/verify - Access denied: %s=%d", actor.Role, actor.ParticipantID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /admin/projections/verify - Replay failed: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	if !report.Deterministic || len(report.SlotMismatches) > 0 {
		h.logger.Error("POST /admin/projections/verify - Projection diverged: deterministic=%t, diverged=%d, slot_mismatches=%d",
			report.Deterministic, len(report.Diverged), len(report.SlotMismatches))
	} else {
		h.logger.Info("POST /admin/projections/verify - Projection verified: records=%d, bookings=%d, last_seq=%d",
			report.Records, report.Bookings, report.LastSeq)
	}
	handlers.RespondJSON(w, http.StatusOK, report)
}
