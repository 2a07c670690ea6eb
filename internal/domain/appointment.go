package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus статус записи на приём
type AppointmentStatus string

const (
	StatusPendingRequest AppointmentStatus = "PENDING_REQUEST"
	StatusConfirmed      AppointmentStatus = "CONFIRMED"
	StatusRejected       AppointmentStatus = "REJECTED"
	StatusCancelled      AppointmentStatus = "CANCELLED"
	StatusCompleted      AppointmentStatus = "COMPLETED"
)

var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPendingRequest: {StatusConfirmed, StatusRejected},
	StatusConfirmed:      {StatusCancelled, StatusCompleted},
}

// CanTransition true, если переход from -> to допустим
func CanTransition(from, to AppointmentStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal true для конечного статуса
func (s AppointmentStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// IsActive подтверждённые и завершённые приёмы попадают в списки участника
func (s AppointmentStatus) IsActive() bool {
	return s == StatusConfirmed || s == StatusCompleted
}

// Appointment текущее состояние бронирования, выведенное из цепочки записей журнала
type Appointment struct {
	BookingID    uuid.UUID
	SlotID       int64
	DoctorID     int64
	PatientID    int64
	Status       AppointmentStatus
	ReasonCode   ReasonCode
	StartsAt     time.Time
	EndsAt       time.Time
	Details      BookingDetails
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ClosedBy     *Actor // кто отменил или завершил
	LastRecordID uuid.UUID
}

// NewAppointment состояние после открывающей записи
func NewAppointment(opening *BookingRecord) (*Appointment, error) {
	if !opening.Outcome.IsOpening() {
		return nil, fmt.Errorf("%w: booking %s starts with %s", ErrBrokenChain, opening.BookingID, opening.Outcome)
	}

	a := &Appointment{
		BookingID:    opening.BookingID,
		SlotID:       opening.SlotID,
		DoctorID:     opening.DoctorID,
		PatientID:    opening.PatientID,
		Status:       opening.Outcome.TargetStatus(),
		ReasonCode:   opening.ReasonCode,
		Details:      opening.Details,
		CreatedAt:    opening.RequestedAt,
		UpdatedAt:    opening.RequestedAt,
		LastRecordID: opening.RecordID,
	}
	if opening.Details.SlotStartsAt != nil {
		a.StartsAt = *opening.Details.SlotStartsAt
	}
	if opening.Details.SlotEndsAt != nil {
		a.EndsAt = *opening.Details.SlotEndsAt
	}
	return a, nil
}

// Apply применяет последующую запись того же бронирования
func (a *Appointment) Apply(rec *BookingRecord) error {
	if rec.BookingID != a.BookingID {
		return fmt.Errorf("%w: record %s belongs to booking %s, not %s",
			ErrBrokenChain, rec.RecordID, rec.BookingID, a.BookingID)
	}

	next := rec.Outcome.TargetStatus()
	if rec.Outcome.IsOpening() || !CanTransition(a.Status, next) {
		return fmt.Errorf("%w: %s -> %s (booking %s)", ErrInvalidTransition, a.Status, next, a.BookingID)
	}

	a.Status = next
	a.ReasonCode = rec.ReasonCode
	a.UpdatedAt = rec.RequestedAt
	a.ClosedBy = &Actor{ParticipantID: rec.ActorID, Role: rec.ActorRole}
	a.LastRecordID = rec.RecordID
	return nil
}

// StatusChain восстанавливает путь статусов бронирования, начиная с PENDING_REQUEST.
// records должны принадлежать одному бронированию и идти в порядке журнала
func StatusChain(records []*BookingRecord) ([]AppointmentStatus, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty chain", ErrBrokenChain)
	}

	appt, err := NewAppointment(records[0])
	if err != nil {
		return nil, err
	}

	chain := []AppointmentStatus{StatusPendingRequest, appt.Status}
	for _, rec := range records[1:] {
		if err := appt.Apply(rec); err != nil {
			return nil, err
		}
		chain = append(chain, appt.Status)
	}

	return chain, nil
}
