package get_schedule_config

import (
	"context"

	"github.com/m04kA/MediLog-SchedulingService/internal/service/schedule/models"
)

type ScheduleService interface {
	Get(ctx context.Context, doctorID int64) (*models.ConfigResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
