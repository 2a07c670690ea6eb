// Package projection строит текущее состояние записей на приём из журнала бронирований.
// Повторное применение уже учтённой записи ничего не меняет
package projection

import (
	"errors"
	"fmt"
	"iter"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
)

// ErrOutOfOrder последующая запись пришла раньше открывающей
var ErrOutOfOrder = errors.New("projection: follow-up record before opening record")

// Projection состояние записей на приём, выведенное из журнала
type Projection struct {
	mu           sync.RWMutex
	applied      map[uuid.UUID]struct{}
	appointments map[uuid.UUID]*domain.Appointment
	lastSeq      int64
}

// New пустая проекция
func New() *Projection {
	return &Projection{
		applied:      make(map[uuid.UUID]struct{}),
		appointments: make(map[uuid.UUID]*domain.Appointment),
	}
}

// Build проекция по последовательности записей
func Build(records iter.Seq2[*domain.BookingRecord, error]) (*Projection, error) {
	p := New()
	if err := p.Replay(records); err != nil {
		return nil, err
	}
	return p, nil
}

// Apply учитывает одну запись. Запись с уже виденным RecordID пропускается
func (p *Projection) Apply(rec *domain.BookingRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.applied[rec.RecordID]; ok {
		return nil
	}

	if rec.Outcome.IsOpening() {
		if _, exists := p.appointments[rec.BookingID]; exists {
			return fmt.Errorf("%w: booking %s opened twice", domain.ErrBrokenChain, rec.BookingID)
		}
		appt, err := domain.NewAppointment(rec)
		if err != nil {
			return err
		}
		p.appointments[rec.BookingID] = appt
	} else {
		appt, ok := p.appointments[rec.BookingID]
		if !ok {
			return fmt.Errorf("%w: record %s for booking %s", ErrOutOfOrder, rec.RecordID, rec.BookingID)
		}
		if err := appt.Apply(rec); err != nil {
			return err
		}
	}

	p.applied[rec.RecordID] = struct{}{}
	if rec.Seq > p.lastSeq {
		p.lastSeq = rec.Seq
	}
	return nil
}

// Replay применяет все записи последовательности по порядку
func (p *Projection) Replay(records iter.Seq2[*domain.BookingRecord, error]) error {
	for rec, err := range records {
		if err != nil {
			return err
		}
		if err := p.Apply(rec); err != nil {
			return err
		}
	}
	return nil
}

// Get копия состояния одной записи на приём
func (p *Projection) Get(bookingID uuid.UUID) (*domain.Appointment, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	appt, ok := p.appointments[bookingID]
	if !ok {
		return nil, false
	}
	cp := *appt
	return &cp, true
}

// Appointments копии всех записей на приём, отобранных keep (nil - все), по времени начала
func (p *Projection) Appointments(keep func(*domain.Appointment) bool) []*domain.Appointment {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]*domain.Appointment, 0, len(p.appointments))
	for _, appt := range p.appointments {
		if keep != nil && !keep(appt) {
			continue
		}
		cp := *appt
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartsAt.Equal(out[j].StartsAt) {
			return out[i].StartsAt.Before(out[j].StartsAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Len количество бронирований
func (p *Projection) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.appointments)
}

// Applied количество учтённых записей
func (p *Projection) Applied() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.applied)
}

// LastSeq наибольший seq среди учтённых записей
func (p *Projection) LastSeq() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastSeq
}

// ActiveBySlot количество подтверждённых и ещё не закрытых бронирований по слотам
func (p *Projection) ActiveBySlot() map[int64]int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make(map[int64]int)
	for _, appt := range p.appointments {
		if appt.Status == domain.StatusConfirmed {
			out[appt.SlotID]++
		}
	}
	return out
}

// Diff идентификаторы бронирований, состояние которых в a и b различается
func Diff(a, b *Projection) []uuid.UUID {
	// повторный RLock той же проекции может встать за ожидающим писателем
	if a == b {
		return []uuid.UUID{}
	}

	a.mu.RLock()
	defer a.mu.RUnlock()
	b.mu.RLock()
	defer b.mu.RUnlock()

	diff := make([]uuid.UUID, 0)
	for id, left := range a.appointments {
		right, ok := b.appointments[id]
		if !ok || left.Status != right.Status || left.LastRecordID != right.LastRecordID {
			diff = append(diff, id)
		}
	}
	for id := range b.appointments {
		if _, ok := a.appointments[id]; !ok {
			diff = append(diff, id)
		}
	}
	return diff
}
