package cancel_booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
)

// SlotModel модель слотов
type SlotModel interface {
	Get(ctx context.Context, slotID int64) (*domain.Slot, error)
	Release(ctx context.Context, slotID int64) error
}

// LedgerRepository журнал бронирований
type LedgerRepository interface {
	Append(ctx context.Context, rec *domain.BookingRecord) (*domain.BookingRecord, error)
	History(ctx context.Context, bookingID uuid.UUID) ([]*domain.BookingRecord, error)
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
