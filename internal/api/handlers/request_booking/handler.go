package request_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/MediLog-SchedulingService/internal/api/handlers"
	"github.com/m04kA/MediLog-SchedulingService/internal/api/middleware"
	requestBooking "github.com/m04kA/MediLog-SchedulingService/internal/usecase/request_booking"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgInvalidInput         = "некорректные данные записи"
	msgForbidden            = "нельзя записать другого пациента"
	msgInvalidSlot          = "слот недоступен для записи"
	msgSlotFull             = "в выбранном слоте нет свободных мест"
	msgDirectoryUnavailable = "справочник врачей временно недоступен"
	msgPersistence          = "не удалось сохранить запись, повторите запрос"
)

type Handler struct {
	useCase RequestBookingUseCase
	logger  Logger
}

func NewHandler(useCase RequestBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req RequestBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(actor))
	if err != nil {
		var rejected *requestBooking.RejectionError
		switch {
		case errors.As(err, &rejected):
			status, msg := http.StatusUnprocessableEntity, msgInvalidSlot
			if errors.Is(err, requestBooking.ErrConflict) {
				status, msg = http.StatusConflict, msgSlotFull
			}
			h.logger.Warn("POST /appointments - Rejected: slot_id=%d, patient_id=%d, reason=%s",
				req.SlotID, req.PatientID, rejected.Reason)
			handlers.RespondJSON(w, status, RejectionResponse{
				Error:      msg,
				BookingID:  rejected.BookingID,
				ReasonCode: string(rejected.Reason),
			})

		case errors.Is(err, requestBooking.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, requestBooking.ErrForbidden):
			h.logger.Warn("POST /appointments - Forbidden: %s=%d, patient_id=%d",
				actor.Role, actor.ParticipantID, req.PatientID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, requestBooking.ErrDirectoryUnavailable):
			h.logger.Error("POST /appointments - Doctor directory unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgDirectoryUnavailable)

		case errors.Is(err, requestBooking.ErrPersistence):
			h.logger.Error("POST /appointments - Persistence error: slot_id=%d, error=%v", req.SlotID, err)
			handlers.RespondServiceUnavailable(w, msgPersistence)

		default:
			h.logger.Error("POST /appointments - Failed to book: slot_id=%d, error=%v", req.SlotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}

	h.logger.Info("POST /appointments - Booking confirmed: booking_id=%s, slot_id=%d, replayed=%t",
		result.BookingID, result.SlotID, result.Replayed)
	handlers.RespondJSON(w, status, FromUseCaseResponse(result))
}
