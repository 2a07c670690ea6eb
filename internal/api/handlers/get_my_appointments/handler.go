package get_my_appointments

import (
	"errors"
	"net/http"

	"github.com/m04kA/MediLog-SchedulingService/internal/api/handlers"
	"github.com/m04kA/MediLog-SchedulingService/internal/api/middleware"
	"github.com/m04kA/MediLog-SchedulingService/internal/service/appointments"
	"github.com/m04kA/MediLog-SchedulingService/internal/service/appointments/models"
)

const (
	msgMissingUserID  = "отсутствует ID пользователя"
	msgInvalidAsOf    = "некорректный параметр asOf, ожидается RFC3339 или YYYY-MM-DD"
	msgNotParticipant = "список доступен только пациентам и врачам"
)

type Handler struct {
	service AppointmentService
	period  Period
	logger  Logger
}

func NewHandler(service AppointmentService, period Period, logger Logger) *Handler {
	return &Handler{
		service: service,
		period:  period,
		logger:  logger,
	}
}

// Handle GET /api/v1/me/appointments/upcoming и GET /api/v1/me/appointments/past
// Query params: asOf (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /me/appointments/%s - Missing user ID", h.period)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	serviceReq, err := ToServiceRequest(actor, r.URL.Query().Get("asOf"))
	if err != nil {
		h.logger.Warn("GET /me/appointments/%s - Invalid asOf: %v", h.period, err)
		handlers.RespondBadRequest(w, msgInvalidAsOf)
		return
	}

	var result *models.AppointmentListResponse
	if h.period == PeriodPast {
		result, err = h.service.PastFor(r.Context(), serviceReq)
	} else {
		result, err = h.service.UpcomingFor(r.Context(), serviceReq)
	}
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /me/appointments/%s - Not a participant: %s=%d", h.period, actor.Role, actor.ParticipantID)
			handlers.RespondBadRequest(w, msgNotParticipant)

		default:
			h.logger.Error("GET /me/appointments/%s - Failed to get appointments: %s=%d, error=%v",
				h.period, actor.Role, actor.ParticipantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /me/appointments/%s - Appointments retrieved: %s=%d, count=%d",
		h.period, actor.Role, actor.ParticipantID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
