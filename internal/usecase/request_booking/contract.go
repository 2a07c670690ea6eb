package request_booking

import (
	"context"
	"time"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
	"github.com/m04kA/MediLog-SchedulingService/internal/integrations/doctorservice"
)

// SlotModel модель слотов
type SlotModel interface {
	Get(ctx context.Context, slotID int64) (*domain.Slot, error)
	TryReserve(ctx context.Context, slotID int64) error
	IsValid(slot *domain.Slot, at time.Time, availability *domain.Availability) domain.ReasonCode
}

// LedgerRepository журнал бронирований
type LedgerRepository interface {
	Append(ctx context.Context, rec *domain.BookingRecord) (*domain.BookingRecord, error)
	FindActiveBooking(ctx context.Context, slotID, patientID int64) (*domain.BookingRecord, error)
}

// ScheduleConfigProvider действующая конфигурация расписания врача
type ScheduleConfigProvider interface {
	Effective(ctx context.Context, doctorID int64) (*domain.ScheduleConfig, error)
}

// DoctorDirectory справочник врачей
type DoctorDirectory interface {
	GetAvailability(ctx context.Context, doctorID int64) (*domain.Availability, *doctorservice.Doctor, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier рассылка событий о записях журнала
type Notifier interface {
	Notify(ctx context.Context, rec *domain.BookingRecord)
}

// Metrics счётчики исходов
type Metrics interface {
	RecordBookingOutcome(outcome string)
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
