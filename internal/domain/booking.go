package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Outcome исход, зафиксированный записью журнала
type Outcome string

const (
	OutcomeConfirmed        Outcome = "CONFIRMED"
	OutcomeRejectedConflict Outcome = "REJECTED_CONFLICT"
	OutcomeRejectedInvalid  Outcome = "REJECTED_INVALID"
	OutcomeCancelled        Outcome = "CANCELLED"
	OutcomeCompleted        Outcome = "COMPLETED"
)

// IsOpening true для записи, открывающей бронирование (решение по запросу)
func (o Outcome) IsOpening() bool {
	return o == OutcomeConfirmed || o == OutcomeRejectedConflict || o == OutcomeRejectedInvalid
}

// IsRejection true для отказа
func (o Outcome) IsRejection() bool {
	return o == OutcomeRejectedConflict || o == OutcomeRejectedInvalid
}

// IsValid true для известного исхода
func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeConfirmed, OutcomeRejectedConflict, OutcomeRejectedInvalid, OutcomeCancelled, OutcomeCompleted:
		return true
	}
	return false
}

// TargetStatus статус записи на приём после применения исхода
func (o Outcome) TargetStatus() AppointmentStatus {
	switch o {
	case OutcomeConfirmed:
		return StatusConfirmed
	case OutcomeRejectedConflict, OutcomeRejectedInvalid:
		return StatusRejected
	case OutcomeCancelled:
		return StatusCancelled
	case OutcomeCompleted:
		return StatusCompleted
	default:
		return StatusPendingRequest
	}
}

// ReasonCode машиночитаемая причина исхода
type ReasonCode string

const (
	ReasonNone                ReasonCode = ""
	ReasonSlotFull            ReasonCode = "slot_full"
	ReasonSlotNotFound        ReasonCode = "slot_not_found"
	ReasonSlotInactive        ReasonCode = "slot_inactive"
	ReasonSlotInPast          ReasonCode = "slot_in_past"
	ReasonOutsideAvailability ReasonCode = "outside_availability"
	ReasonDoctorMismatch      ReasonCode = "doctor_mismatch"
	ReasonDoctorNotFound      ReasonCode = "doctor_not_found"
	ReasonTooLate             ReasonCode = "min_notice_violated"
	ReasonTooFar              ReasonCode = "beyond_advance_window"
	ReasonCancelledByPatient  ReasonCode = "cancelled_by_patient"
	ReasonCancelledByDoctor   ReasonCode = "cancelled_by_doctor"
	ReasonCancelledByAdmin    ReasonCode = "cancelled_by_admin"
	ReasonVisitCompleted      ReasonCode = "visit_completed"
)

// CancelReasonFor причина отмены по роли отменяющего
func CancelReasonFor(role Role) ReasonCode {
	switch role {
	case RolePatient:
		return ReasonCancelledByPatient
	case RoleDoctor:
		return ReasonCancelledByDoctor
	default:
		return ReasonCancelledByAdmin
	}
}

// BookingDetails денормализованные данные для истории (как в форме записи MediLog)
type BookingDetails struct {
	SlotStartsAt *time.Time
	SlotEndsAt   *time.Time
	PatientName  *string
	PatientEmail *string
	DoctorName   *string
	HospitalName *string
	Disease      *string
	ClinicalNote *string
}

// BookingRecord неизменяемая запись журнала бронирований.
// Отмена и завершение - новые записи с тем же BookingID
type BookingRecord struct {
	Seq            int64 // порядковый номер в журнале, присваивается при записи
	RecordID       uuid.UUID
	BookingID      uuid.UUID
	SlotID         int64
	DoctorID       int64
	PatientID      int64
	Outcome        Outcome
	ReasonCode     ReasonCode
	ActorID        int64
	ActorRole      Role
	IdempotencyKey string
	RequestedAt    time.Time
	Details        BookingDetails
}

// IdempotencyKey естественный ключ запроса на запись
func IdempotencyKey(doctorID, patientID, slotID int64) string {
	return fmt.Sprintf("%d:%d:%d", doctorID, patientID, slotID)
}

// NewOpeningRecord запись-решение по новому запросу
func NewOpeningRecord(
	outcome Outcome,
	reason ReasonCode,
	doctorID, patientID, slotID int64,
	actor Actor,
	at time.Time,
	details BookingDetails,
) *BookingRecord {
	return &BookingRecord{
		RecordID:       uuid.New(),
		BookingID:      uuid.New(),
		SlotID:         slotID,
		DoctorID:       doctorID,
		PatientID:      patientID,
		Outcome:        outcome,
		ReasonCode:     reason,
		ActorID:        actor.ParticipantID,
		ActorRole:      actor.Role,
		IdempotencyKey: IdempotencyKey(doctorID, patientID, slotID),
		RequestedAt:    at,
		Details:        details,
	}
}

// FollowUp запись, продолжающая бронирование opening (отмена, завершение).
// Время не раньше времени открывающей записи, даже если часы вызывающего отстают
func (r *BookingRecord) FollowUp(outcome Outcome, reason ReasonCode, actor Actor, at time.Time) *BookingRecord {
	if at.Before(r.RequestedAt) {
		at = r.RequestedAt
	}

	return &BookingRecord{
		RecordID:       uuid.New(),
		BookingID:      r.BookingID,
		SlotID:         r.SlotID,
		DoctorID:       r.DoctorID,
		PatientID:      r.PatientID,
		Outcome:        outcome,
		ReasonCode:     reason,
		ActorID:        actor.ParticipantID,
		ActorRole:      actor.Role,
		IdempotencyKey: r.IdempotencyKey,
		RequestedAt:    at,
		Details:        r.Details,
	}
}

// RecordsFilter фильтр выборки из журнала; пустые поля не ограничивают выборку
type RecordsFilter struct {
	DoctorID  *int64
	PatientID *int64
	SlotID    *int64
	BookingID *uuid.UUID
	AfterSeq  int64
}
