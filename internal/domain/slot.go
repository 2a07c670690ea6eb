package domain

import "time"

// SlotSource откуда появился слот
type SlotSource string

const (
	SlotSourceGenerated SlotSource = "generated" // материализован из рабочих часов врача
	SlotSourceDeclared  SlotSource = "declared"  // объявлен врачом или администратором
)

// Slot интервал приёма врача с ограниченной вместимостью.
// Инвариант: 0 <= BookedCount <= Capacity
type Slot struct {
	ID          int64
	DoctorID    int64
	StartsAt    time.Time
	EndsAt      time.Time
	Capacity    int
	BookedCount int
	Active      bool
	Source      SlotSource
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasCapacity true, если есть свободное место
func (s *Slot) HasCapacity() bool {
	return s.BookedCount < s.Capacity
}

// AvailableSpots количество свободных мест
func (s *Slot) AvailableSpots() int {
	if !s.Active || s.BookedCount >= s.Capacity {
		return 0
	}
	return s.Capacity - s.BookedCount
}

// TryReserve занимает место в слоте, если оно есть
func (s *Slot) TryReserve() error {
	if !s.Active {
		return ErrSlotInactive
	}
	if !s.HasCapacity() {
		return ErrSlotFull
	}
	s.BookedCount++
	return nil
}

// Release освобождает место; ниже нуля счётчик не опускается
func (s *Slot) Release() {
	if s.BookedCount > 0 {
		s.BookedCount--
	}
}

// Duration длительность слота
func (s *Slot) Duration() time.Duration {
	return s.EndsAt.Sub(s.StartsAt)
}

// Validate проверяет, что на слот можно записаться в момент at.
// availability может быть nil, тогда рабочие часы не проверяются
func (s *Slot) Validate(at time.Time, availability *Availability) error {
	if !s.Active {
		return ErrSlotInactive
	}
	if !s.StartsAt.After(at) {
		return ErrSlotInPast
	}
	if availability != nil && !availability.Covers(s.StartsAt, s.EndsAt) {
		return ErrOutsideAvailability
	}
	return nil
}

// SlotsFilter выборка слотов врача за период [From, To)
type SlotsFilter struct {
	DoctorID        int64
	From            time.Time
	To              time.Time
	IncludeInactive bool
}
