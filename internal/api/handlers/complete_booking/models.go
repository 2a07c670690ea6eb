package complete_booking

import (
	"time"

	"github.com/google/uuid"

	completeBooking "github.com/m04kA/MediLog-SchedulingService/internal/usecase/complete_booking"
)

// CompleteBookingResponse HTTP response model
type CompleteBookingResponse struct {
	BookingID   uuid.UUID `json:"bookingId"`
	SlotID      int64     `json:"slotId"`
	Status      string    `json:"status"`
	CompletedAt string    `json:"completedAt"`
}

func FromUseCaseResponse(resp *completeBooking.Response) *CompleteBookingResponse {
	return &CompleteBookingResponse{
		BookingID:   resp.BookingID,
		SlotID:      resp.SlotID,
		Status:      string(resp.Status),
		CompletedAt: resp.CompletedAt.Format(time.RFC3339),
	}
}
