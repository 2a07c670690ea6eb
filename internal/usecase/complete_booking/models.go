package complete_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
)

// Request модель запроса на завершение приёма
type Request struct {
	Actor     domain.Actor
	BookingID uuid.UUID
}

// Response модель ответа
type Response struct {
	BookingID   uuid.UUID
	RecordID    uuid.UUID
	SlotID      int64
	Status      domain.AppointmentStatus
	CompletedAt time.Time
}
