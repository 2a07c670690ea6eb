package models

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// ParticipantRequest запрос списка записей участника (пациента или врача)
type ParticipantRequest struct {
	Actor domain.Actor
	AsOf  time.Time // нулевое значение - текущий момент
}

// ListAllRequest административная выборка всех записей
type ListAllRequest struct {
	Actor     domain.Actor
	DoctorID  *int64
	PatientID *int64
	Status    *string
}

// Response модели

// ActorResponse кто закрыл запись
type ActorResponse struct {
	ID   int64  `json:"id"`
	Role string `json:"role"`
}

// AppointmentResponse запись на приём
type AppointmentResponse struct {
	BookingID  uuid.UUID `json:"bookingId"`
	SlotID     int64     `json:"slotId"`
	DoctorID   int64     `json:"doctorId"`
	PatientID  int64     `json:"patientId"`
	Status     string    `json:"status"`
	ReasonCode string    `json:"reasonCode,omitempty"`
	StartsAt   time.Time `json:"startsAt"`
	EndsAt     time.Time `json:"endsAt"`

	// Денормализованные данные
	DoctorName   *string `json:"doctorName,omitempty"`
	HospitalName *string `json:"hospitalName,omitempty"`
	PatientName  *string `json:"patientName,omitempty"`
	PatientEmail *string `json:"patientEmail,omitempty"`
	Disease      *string `json:"disease,omitempty"`
	ClinicalNote *string `json:"clinicalNote,omitempty"`

	ClosedBy *ActorResponse `json:"closedBy,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse список записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// RecordResponse запись журнала
type RecordResponse struct {
	Seq         int64     `json:"seq"`
	RecordID    uuid.UUID `json:"recordId"`
	Outcome     string    `json:"outcome"`
	ReasonCode  string    `json:"reasonCode,omitempty"`
	ActorID     int64     `json:"actorId"`
	ActorRole   string    `json:"actorRole"`
	RequestedAt time.Time `json:"requestedAt"`
}

// AppointmentDetailsResponse запись на приём с цепочкой статусов и журналом
type AppointmentDetailsResponse struct {
	Appointment AppointmentResponse `json:"appointment"`
	StatusChain []string            `json:"statusChain"`
	Records     []RecordResponse    `json:"records"`
}

// SlotMismatch расхождение счётчика слота с проекцией
type SlotMismatch struct {
	SlotID      int64 `json:"slotId"`
	Projected   int   `json:"projected"`
	BookedCount int   `json:"bookedCount"`
}

// ReplayReport результат проверки детерминированности перестроения проекции
type ReplayReport struct {
	Records        int            `json:"records"`
	Bookings       int            `json:"bookings"`
	LastSeq        int64          `json:"lastSeq"`
	Deterministic  bool           `json:"deterministic"`
	Diverged       []uuid.UUID    `json:"diverged"`
	SlotMismatches []SlotMismatch `json:"slotMismatches"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		BookingID:    a.BookingID,
		SlotID:       a.SlotID,
		DoctorID:     a.DoctorID,
		PatientID:    a.PatientID,
		Status:       string(a.Status),
		ReasonCode:   string(a.ReasonCode),
		StartsAt:     a.StartsAt,
		EndsAt:       a.EndsAt,
		DoctorName:   a.Details.DoctorName,
		HospitalName: a.Details.HospitalName,
		PatientName:  a.Details.PatientName,
		PatientEmail: a.Details.PatientEmail,
		Disease:      a.Details.Disease,
		ClinicalNote: a.Details.ClinicalNote,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}

	if a.ClosedBy != nil {
		resp.ClosedBy = &ActorResponse{ID: a.ClosedBy.ParticipantID, Role: string(a.ClosedBy.Role)}
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(list []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(list)),
	}
	for _, a := range list {
		if item := FromDomainAppointment(a); item != nil {
			resp.Appointments = append(resp.Appointments, *item)
		}
	}
	return resp
}

// FromDomainRecord конвертирует запись журнала в DTO
func FromDomainRecord(r *domain.BookingRecord) RecordResponse {
	return RecordResponse{
		Seq:         r.Seq,
		RecordID:    r.RecordID,
		Outcome:     string(r.Outcome),
		ReasonCode:  string(r.ReasonCode),
		ActorID:     r.ActorID,
		ActorRole:   string(r.ActorRole),
		RequestedAt: r.RequestedAt,
	}
}

// ToDomainStatus конвертирует строку в domain.AppointmentStatus с валидацией
func ToDomainStatus(status string) (domain.AppointmentStatus, error) {
	s := domain.AppointmentStatus(status)
	switch s {
	case domain.StatusConfirmed, domain.StatusRejected, domain.StatusCancelled, domain.StatusCompleted:
		return s, nil
	default:
		return "", ErrInvalidStatus
	}
}
