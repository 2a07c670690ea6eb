package get_appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
	"github.com/m04kA/MediLog-SchedulingService/internal/service/appointments/models"
)

type AppointmentService interface {
	Get(ctx context.Context, actor domain.Actor, bookingID uuid.UUID) (*models.AppointmentDetailsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
