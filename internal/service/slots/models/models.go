package models

import (
	"time"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
)

// DeclareSlotRequest запрос на объявление слота врачом или администратором
type DeclareSlotRequest struct {
	Actor    domain.Actor `json:"-"`
	DoctorID int64        `json:"-"`
	StartsAt time.Time    `json:"startsAt"`
	EndsAt   time.Time    `json:"endsAt"`
	Capacity int          `json:"capacity"`
}

// ToDomainSlot конвертирует запрос в domain модель
func (r *DeclareSlotRequest) ToDomainSlot() *domain.Slot {
	return &domain.Slot{
		DoctorID: r.DoctorID,
		StartsAt: r.StartsAt.UTC(),
		EndsAt:   r.EndsAt.UTC(),
		Capacity: r.Capacity,
		Active:   true,
		Source:   domain.SlotSourceDeclared,
	}
}

// SlotResponse ответ с данными слота
type SlotResponse struct {
	ID             int64     `json:"id"`
	DoctorID       int64     `json:"doctorId"`
	StartsAt       time.Time `json:"startsAt"`
	EndsAt         time.Time `json:"endsAt"`
	Capacity       int       `json:"capacity"`
	BookedCount    int       `json:"bookedCount"`
	AvailableSpots int       `json:"availableSpots"`
	Active         bool      `json:"active"`
	Source         string    `json:"source"`
}

// FromDomainSlot конвертирует domain модель в DTO
func FromDomainSlot(s *domain.Slot) *SlotResponse {
	if s == nil {
		return nil
	}
	return &SlotResponse{
		ID:             s.ID,
		DoctorID:       s.DoctorID,
		StartsAt:       s.StartsAt,
		EndsAt:         s.EndsAt,
		Capacity:       s.Capacity,
		BookedCount:    s.BookedCount,
		AvailableSpots: s.AvailableSpots(),
		Active:         s.Active,
		Source:         string(s.Source),
	}
}
