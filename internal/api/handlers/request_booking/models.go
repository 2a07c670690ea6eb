package request_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
	requestBooking "github.com/m04kA/MediLog-SchedulingService/internal/usecase/request_booking"
)

// RequestBookingRequest HTTP request model
type RequestBookingRequest struct {
	DoctorID     int64   `json:"doctorId"`
	PatientID    int64   `json:"patientId,omitempty"` // по умолчанию - сам пациент
	SlotID       int64   `json:"slotId"`
	PatientName  *string `json:"patientName,omitempty"`
	PatientEmail *string `json:"patientEmail,omitempty"`
	Disease      *string `json:"disease,omitempty"`
	ClinicalNote *string `json:"clinicalNote,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	BookingID    uuid.UUID `json:"bookingId"`
	SlotID       int64     `json:"slotId"`
	DoctorID     int64     `json:"doctorId"`
	PatientID    int64     `json:"patientId"`
	Status       string    `json:"status"`
	StartsAt     *string   `json:"startsAt,omitempty"`
	EndsAt       *string   `json:"endsAt,omitempty"`
	DoctorName   *string   `json:"doctorName,omitempty"`
	HospitalName *string   `json:"hospitalName,omitempty"`
	PatientName  *string   `json:"patientName,omitempty"`
	Disease      *string   `json:"disease,omitempty"`
	ClinicalNote *string   `json:"clinicalNote,omitempty"`
	RequestedAt  string    `json:"requestedAt"`
}

// RejectionResponse отказ, зафиксированный в журнале
type RejectionResponse struct {
	Error      string    `json:"error"`
	BookingID  uuid.UUID `json:"bookingId"`
	ReasonCode string    `json:"reasonCode"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RequestBookingRequest) ToUseCaseRequest(actor domain.Actor) *requestBooking.Request {
	patientID := r.PatientID
	if patientID == 0 && actor.Role == domain.RolePatient {
		patientID = actor.ParticipantID
	}

	return &requestBooking.Request{
		Actor:        actor,
		DoctorID:     r.DoctorID,
		PatientID:    patientID,
		SlotID:       r.SlotID,
		PatientName:  r.PatientName,
		PatientEmail: r.PatientEmail,
		Disease:      r.Disease,
		ClinicalNote: r.ClinicalNote,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *requestBooking.Response) *AppointmentResponse {
	return &AppointmentResponse{
		BookingID:    resp.BookingID,
		SlotID:       resp.SlotID,
		DoctorID:     resp.DoctorID,
		PatientID:    resp.PatientID,
		Status:       string(resp.Status),
		StartsAt:     formatTime(resp.StartsAt),
		EndsAt:       formatTime(resp.EndsAt),
		DoctorName:   resp.Details.DoctorName,
		HospitalName: resp.Details.HospitalName,
		PatientName:  resp.Details.PatientName,
		Disease:      resp.Details.Disease,
		ClinicalNote: resp.Details.ClinicalNote,
		RequestedAt:  resp.RequestedAt.Format(time.RFC3339),
	}
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
