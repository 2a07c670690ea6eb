package schedule

import (
	"context"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
)

// ConfigRepository интерфейс репозитория конфигурации расписания
type ConfigRepository interface {
	GetByDoctor(ctx context.Context, doctorID *int64) (*domain.ScheduleConfig, error)
	GetConfigWithHierarchy(ctx context.Context, doctorID int64) (*domain.ScheduleConfig, error)
	Upsert(ctx context.Context, cfg *domain.ScheduleConfig) (*domain.ScheduleConfig, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
