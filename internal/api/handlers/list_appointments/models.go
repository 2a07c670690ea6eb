package list_appointments

import (
	"strconv"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
	"github.com/m04kA/MediLog-SchedulingService/internal/service/appointments/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(actor domain.Actor, doctorIDStr, patientIDStr, statusStr string) (*models.ListAllRequest, error) {
	req := &models.ListAllRequest{Actor: actor}

	if doctorIDStr != "" {
		doctorID, err := strconv.ParseInt(doctorIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.DoctorID = &doctorID
	}

	if patientIDStr != "" {
		patientID, err := strconv.ParseInt(patientIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.PatientID = &patientID
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	return req, nil
}
