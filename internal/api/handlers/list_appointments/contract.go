package list_appointments

import (
	"context"

	"github.com/m04kA/MediLog-SchedulingService/internal/service/appointments/models"
)

type AppointmentService interface {
	ListAll(ctx context.Context, req *models.ListAllRequest) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
