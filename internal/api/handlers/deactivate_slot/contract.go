package deactivate_slot

import (
	"context"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
	"github.com/m04kA/MediLog-SchedulingService/internal/service/slots/models"
)

type SlotService interface {
	Deactivate(ctx context.Context, actor domain.Actor, slotID int64) (*models.SlotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
