package request_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
)

// Request модель запроса на запись к врачу
type Request struct {
	Actor     domain.Actor // кто выполняет запрос
	DoctorID  int64
	PatientID int64
	SlotID    int64

	// Данные формы записи (опционально)
	PatientName  *string
	PatientEmail *string
	Disease      *string
	ClinicalNote *string
}

// Response модель ответа с подтверждённой записью
type Response struct {
	BookingID   uuid.UUID
	RecordID    uuid.UUID
	SlotID      int64
	DoctorID    int64
	PatientID   int64
	Status      domain.AppointmentStatus
	StartsAt    *time.Time
	EndsAt      *time.Time
	Details     domain.BookingDetails
	RequestedAt time.Time
	Replayed    bool // повтор запроса с тем же ключом, новая запись не создавалась
}

func fromRecord(rec *domain.BookingRecord, replayed bool) *Response {
	return &Response{
		BookingID:   rec.BookingID,
		RecordID:    rec.RecordID,
		SlotID:      rec.SlotID,
		DoctorID:    rec.DoctorID,
		PatientID:   rec.PatientID,
		Status:      rec.Outcome.TargetStatus(),
		StartsAt:    rec.Details.SlotStartsAt,
		EndsAt:      rec.Details.SlotEndsAt,
		Details:     rec.Details,
		RequestedAt: rec.RequestedAt,
		Replayed:    replayed,
	}
}
