package events

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
)

// Publisher отправка JSON в брокер (*mq.Publisher)
type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// BookingEvent сообщение о новой записи журнала
type BookingEvent struct {
	RecordID    uuid.UUID  `json:"record_id"`
	BookingID   uuid.UUID  `json:"booking_id"`
	SlotID      int64      `json:"slot_id"`
	DoctorID    int64      `json:"doctor_id"`
	PatientID   int64      `json:"patient_id"`
	Outcome     string     `json:"outcome"`
	ReasonCode  string     `json:"reason_code,omitempty"`
	ActorID     int64      `json:"actor_id"`
	ActorRole   string     `json:"actor_role"`
	RequestedAt time.Time  `json:"requested_at"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
}

// RoutingKey ключ маршрутизации для исхода: booking.confirmed, booking.rejected и т.д.
func RoutingKey(outcome domain.Outcome) string {
	if outcome.IsRejection() {
		return "booking.rejected"
	}
	return "booking." + strings.ToLower(string(outcome))
}

// NewBookingEvent собирает сообщение из записи журнала
func NewBookingEvent(rec *domain.BookingRecord) BookingEvent {
	return BookingEvent{
		RecordID:    rec.RecordID,
		BookingID:   rec.BookingID,
		SlotID:      rec.SlotID,
		DoctorID:    rec.DoctorID,
		PatientID:   rec.PatientID,
		Outcome:     string(rec.Outcome),
		ReasonCode:  string(rec.ReasonCode),
		ActorID:     rec.ActorID,
		ActorRole:   string(rec.ActorRole),
		RequestedAt: rec.RequestedAt,
		StartsAt:    rec.Details.SlotStartsAt,
		EndsAt:      rec.Details.SlotEndsAt,
	}
}

// Notifier рассылает события после фиксации транзакции.
// Ошибка брокера не влияет на результат операции: журнал уже записан
type Notifier struct {
	publisher Publisher
	timeout   time.Duration
	logger    Logger
}

// NewNotifier создает рассыльщик поверх publisher
func NewNotifier(publisher Publisher, timeout time.Duration, logger Logger) *Notifier {
	return &Notifier{publisher: publisher, timeout: timeout, logger: logger}
}

// Notify публикует событие по записи
func (n *Notifier) Notify(ctx context.Context, rec *domain.BookingRecord) {
	if n == nil || n.publisher == nil || rec == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	defer cancel()

	key := RoutingKey(rec.Outcome)
	if err := n.publisher.PublishJSON(ctx, key, NewBookingEvent(rec)); err != nil {
		n.logger.Warn("Notify: failed to publish %s for booking=%s: %v", key, rec.BookingID, err)
	}
}

// Nop рассыльщик, когда брокер выключен
type Nop struct{}

// Notify ничего не делает
func (Nop) Notify(context.Context, *domain.BookingRecord) {}
