package appointments

import (
	"context"
	"iter"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
)

// LedgerReader чтение журнала бронирований
type LedgerReader interface {
	RecordsFor(ctx context.Context, filter domain.RecordsFilter) iter.Seq2[*domain.BookingRecord, error]
	History(ctx context.Context, bookingID uuid.UUID) ([]*domain.BookingRecord, error)
}

// SlotReader чтение слотов для сверки проекции со счётчиками
type SlotReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
}

// TransactionManager снимок данных для согласованного чтения
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
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
