package verify_projection

import (
	"context"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
	"github.com/m04kA/MediLog-SchedulingService/internal/service/appointments/models"
)

type AppointmentService interface {
	VerifyReplay(ctx context.Context, actor domain.Actor) (*models.ReplayReport, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
