package request_booking

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
)

var (
	// ErrInvalidSlot слот не существует, снят, уже начался или вне рабочих часов врача
	ErrInvalidSlot = errors.New("request_booking: invalid slot")

	// ErrConflict в слоте нет свободных мест
	ErrConflict = errors.New("request_booking: slot capacity exhausted")

	// ErrForbidden актор не может записывать этого пациента
	ErrForbidden = errors.New("request_booking: forbidden")

	// ErrPersistence хранилище недоступно или истёк таймаут; запрос можно повторить
	ErrPersistence = errors.New("request_booking: persistence error")

	// ErrDirectoryUnavailable справочник врачей недоступен; запрос можно повторить
	ErrDirectoryUnavailable = errors.New("request_booking: doctor directory unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("request_booking: invalid input data")
)

// RejectionError отказ, записанный в журнал. errors.Is сравнивает с ErrInvalidSlot или ErrConflict
type RejectionError struct {
	BookingID uuid.UUID
	Reason    domain.ReasonCode
	kind      error
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%v: %s (booking %s)", e.kind, e.Reason, e.BookingID)
}

func (e *RejectionError) Unwrap() error {
	return e.kind
}

func rejection(rec *domain.BookingRecord) error {
	kind := ErrInvalidSlot
	if rec.Outcome == domain.OutcomeRejectedConflict {
		kind = ErrConflict
	}
	return &RejectionError{BookingID: rec.BookingID, Reason: rec.ReasonCode, kind: kind}
}
