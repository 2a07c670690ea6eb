package request_booking

import (
	"fmt"
	"net/mail"
	"unicode/utf8"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.DoctorID <= 0 {
		return fmt.Errorf("%w: doctorId must be positive", ErrInvalidInput)
	}

	if req.PatientID <= 0 {
		return fmt.Errorf("%w: patientId must be positive", ErrInvalidInput)
	}

	if req.SlotID <= 0 {
		return fmt.Errorf("%w: slotId must be positive", ErrInvalidInput)
	}

	for name, v := range map[string]*string{
		"patientName":  req.PatientName,
		"patientEmail": req.PatientEmail,
		"disease":      req.Disease,
	} {
		if v != nil && utf8.RuneCountInString(*v) > domain.MaxDetailFieldLength {
			return fmt.Errorf("%w: %s is longer than %d characters", ErrInvalidInput, name, domain.MaxDetailFieldLength)
		}
	}

	if req.PatientEmail != nil && *req.PatientEmail != "" {
		if _, err := mail.ParseAddress(*req.PatientEmail); err != nil {
			return fmt.Errorf("%w: patientEmail: %v", ErrInvalidInput, err)
		}
	}

	if req.ClinicalNote != nil && utf8.RuneCountInString(*req.ClinicalNote) > domain.MaxClinicalNoteLength {
		return fmt.Errorf("%w: clinicalNote is longer than %d characters", ErrInvalidInput, domain.MaxClinicalNoteLength)
	}

	return nil
}
