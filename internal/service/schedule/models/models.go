package models

import (
	"time"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
)

// UpdateConfigRequest запрос на изменение конфигурации расписания.
// Все поля опциональны - обновляются только переданные значения
type UpdateConfigRequest struct {
	Actor                   domain.Actor `json:"-"`
	DoctorID                *int64       `json:"-"` // nil = глобальная конфигурация
	SlotDurationMinutes     *int         `json:"slotDurationMinutes,omitempty"`
	SlotCapacity            *int         `json:"slotCapacity,omitempty"`
	AdvanceBookingDays      *int         `json:"advanceBookingDays,omitempty"`
	MinBookingNoticeMinutes *int         `json:"minBookingNoticeMinutes,omitempty"`
}

// ApplyToConfig применяет переданные поля к конфигурации
func (r *UpdateConfigRequest) ApplyToConfig(c *domain.ScheduleConfig) {
	if r.SlotDurationMinutes != nil {
		c.SlotDurationMinutes = *r.SlotDurationMinutes
	}
	if r.SlotCapacity != nil {
		c.SlotCapacity = *r.SlotCapacity
	}
	if r.AdvanceBookingDays != nil {
		c.AdvanceBookingDays = *r.AdvanceBookingDays
	}
	if r.MinBookingNoticeMinutes != nil {
		c.MinBookingNoticeMinutes = *r.MinBookingNoticeMinutes
	}
}

// ConfigResponse действующая конфигурация расписания
type ConfigResponse struct {
	ID                      int64      `json:"id,omitempty"`
	DoctorID                *int64     `json:"doctorId,omitempty"`
	Level                   string     `json:"level"` // doctor, global, default
	SlotDurationMinutes     int        `json:"slotDurationMinutes"`
	SlotCapacity            int        `json:"slotCapacity"`
	AdvanceBookingDays      int        `json:"advanceBookingDays"`
	MinBookingNoticeMinutes int        `json:"minBookingNoticeMinutes"`
	UpdatedAt               *time.Time `json:"updatedAt,omitempty"`
}

// FromDomainConfig конвертирует domain модель в DTO
func FromDomainConfig(c *domain.ScheduleConfig, level string) *ConfigResponse {
	if c == nil {
		return nil
	}

	resp := &ConfigResponse{
		ID:                      c.ID,
		DoctorID:                c.DoctorID,
		Level:                   level,
		SlotDurationMinutes:     c.SlotDurationMinutes,
		SlotCapacity:            c.SlotCapacity,
		AdvanceBookingDays:      c.AdvanceBookingDays,
		MinBookingNoticeMinutes: c.MinBookingNoticeMinutes,
	}
	if !c.UpdatedAt.IsZero() {
		updatedAt := c.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}
