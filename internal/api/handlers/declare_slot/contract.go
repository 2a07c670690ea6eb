package declare_slot

import (
	"context"

	"github.com/m04kA/MediLog-SchedulingService/internal/service/slots/models"
)

type SlotService interface {
	Declare(ctx context.Context, req *models.DeclareSlotRequest) (*models.SlotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
