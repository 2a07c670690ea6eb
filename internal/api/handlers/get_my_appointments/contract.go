package get_my_appointments

import (
	"context"

	"github.com/m04kA/MediLog-SchedulingService/internal/service/appointments/models"
)

type AppointmentService interface {
	UpcomingFor(ctx context.Context, req *models.ParticipantRequest) (*models.AppointmentListResponse, error)
	PastFor(ctx context.Context, req *models.ParticipantRequest) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
