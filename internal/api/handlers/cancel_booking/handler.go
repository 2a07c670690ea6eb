package cancel_booking

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/MediLog-SchedulingService/internal/api/handlers"
	"github.com/m04kA/MediLog-SchedulingService/internal/api/middleware"
	cancelBooking "github.com/m04kA/MediLog-SchedulingService/internal/usecase/cancel_booking"
)

const (
	msgInvalidBookingID = "некорректный ID записи"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgNotFound         = "запись не найдена"
	msgForbidden        = "доступ запрещен"
	msgCannotCancel     = "запись не может быть отменена"
	msgPersistence      = "не удалось отменить запись, повторите запрос"
)

type Handler struct {
	useCase CancelBookingUseCase
	logger  Logger
}

func NewHandler(useCase CancelBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{bookingId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PATCH /appointments/{id}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	bookingID, err := uuid.Parse(mux.Vars(r)["bookingId"])
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/cancel - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &cancelBooking.Request{Actor: actor, BookingID: bookingID})
	if err != nil {
		switch {
		case errors.Is(err, cancelBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /appointments/{id}/cancel - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidBookingID)

		case errors.Is(err, cancelBooking.ErrNotFound):
			h.logger.Warn("PATCH /appointments/{id}/cancel - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, cancelBooking.ErrForbidden):
			h.logger.Warn("PATCH /appointments/{id}/cancel - Access denied: booking_id=%s, %s=%d",
				bookingID, actor.Role, actor.ParticipantID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, cancelBooking.ErrCannotCancel):
			h.logger.Warn("PATCH /appointments/{id}/cancel - Cannot cancel: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgCannotCancel)

		case errors.Is(err, cancelBooking.ErrPersistence):
			h.logger.Error("PATCH /appointments/{id}/cancel - Persistence error: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondServiceUnavailable(w, msgPersistence)

		default:
			h.logger.Error("PATCH /appointments/{id}/cancel - Failed to cancel booking: booking_id=%s, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id}/cancel - Booking cancelled: booking_id=%s, reason=%s",
		bookingID, result.ReasonCode)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
