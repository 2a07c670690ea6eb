package complete_booking

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/MediLog-SchedulingService/internal/api/handlers"
	"github.com/m04kA/MediLog-SchedulingService/internal/api/middleware"
	completeBooking "github.com/m04kA/MediLog-SchedulingService/internal/usecase/complete_booking"
)

const (
	msgInvalidBookingID = "некорректный ID записи"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgNotFound         = "запись не найдена"
	msgForbidden        = "завершить приём может только его врач"
	msgCannotComplete   = "приём не может быть завершён"
	msgPersistence      = "не удалось сохранить изменения, повторите запрос"
)

type Handler struct {
	useCase CompleteBookingUseCase
	logger  Logger
}

func NewHandler(useCase CompleteBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{bookingId}/complete
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PATCH /appointments/{id}/complete - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	bookingID, err := uuid.Parse(mux.Vars(r)["bookingId"])
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/complete - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &completeBooking.Request{Actor: actor, BookingID: bookingID})
	if err != nil {
		switch {
		case errors.Is(err, completeBooking.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidBookingID)

		case errors.Is(err, completeBooking.ErrNotFound):
			h.logger.Warn("PATCH /appointments/{id}/complete - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, completeBooking.ErrForbidden):
			h.logger.Warn("PATCH /appointments/{id}/complete - Access denied: booking_id=%s, %s=%d",
				bookingID, actor.Role, actor.ParticipantID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, completeBooking.ErrCannotComplete):
			h.logger.Warn("PATCH /appointments/{id}/complete - Cannot complete: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondConflict(w, msgCannotComplete)

		case errors.Is(err, completeBooking.ErrPersistence):
			h.logger.Error("PATCH /appointments/{id}/complete - Persistence error: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondServiceUnavailable(w, msgPersistence)

		default:
			h.logger.Error("PATCH /appointments/{id}/complete - Failed to complete booking: booking_id=%s, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id}/complete - Visit completed: booking_id=%s", bookingID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
