package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
	"github.com/m04kA/MediLog-SchedulingService/internal/integrations/doctorservice"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	// Materialize сохраняет сгенерированные слоты; уже существующие не трогает
	Materialize(ctx context.Context, slots []*domain.Slot) error
	ListByDoctor(ctx context.Context, filter domain.SlotsFilter) ([]*domain.Slot, error)
}

// ScheduleConfigProvider действующая конфигурация расписания врача
type ScheduleConfigProvider interface {
	Effective(ctx context.Context, doctorID int64) (*domain.ScheduleConfig, error)
}

// DoctorDirectory справочник врачей
type DoctorDirectory interface {
	GetAvailability(ctx context.Context, doctorID int64) (*domain.Availability, *doctorservice.Doctor, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
