package cancel_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
)

// Request модель запроса на отмену записи
type Request struct {
	Actor     domain.Actor
	BookingID uuid.UUID
}

// Response модель ответа с отменённой записью
type Response struct {
	BookingID   uuid.UUID
	RecordID    uuid.UUID
	SlotID      int64
	Status      domain.AppointmentStatus
	ReasonCode  domain.ReasonCode
	CancelledAt time.Time
}
