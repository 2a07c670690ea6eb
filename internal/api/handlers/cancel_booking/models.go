package cancel_booking

import (
	"time"

	"github.com/google/uuid"

	cancelBooking "github.com/m04kA/MediLog-SchedulingService/internal/usecase/cancel_booking"
)

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	BookingID   uuid.UUID `json:"bookingId"`
	SlotID      int64     `json:"slotId"`
	Status      string    `json:"status"`
	ReasonCode  string    `json:"reasonCode"`
	CancelledAt string    `json:"cancelledAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelBooking.Response) *CancelBookingResponse {
	return &CancelBookingResponse{
		BookingID:   resp.BookingID,
		SlotID:      resp.SlotID,
		Status:      string(resp.Status),
		ReasonCode:  string(resp.ReasonCode),
		CancelledAt: resp.CancelledAt.Format(time.RFC3339),
	}
}
