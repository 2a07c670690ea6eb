package update_schedule_config

import (
	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
	"github.com/m04kA/MediLog-SchedulingService/internal/service/schedule/models"
)

// UpdateScheduleConfigRequest HTTP request model
type UpdateScheduleConfigRequest struct {
	SlotDurationMinutes     *int `json:"slotDurationMinutes,omitempty"`
	SlotCapacity            *int `json:"slotCapacity,omitempty"`
	AdvanceBookingDays      *int `json:"advanceBookingDays,omitempty"`
	MinBookingNoticeMinutes *int `json:"minBookingNoticeMinutes,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса; doctorID == nil - глобальная конфигурация
func (r *UpdateScheduleConfigRequest) ToServiceRequest(actor domain.Actor, doctorID *int64) *models.UpdateConfigRequest {
	return &models.UpdateConfigRequest{
		Actor:                   actor,
		DoctorID:                doctorID,
		SlotDurationMinutes:     r.SlotDurationMinutes,
		SlotCapacity:            r.SlotCapacity,
		AdvanceBookingDays:      r.AdvanceBookingDays,
		MinBookingNoticeMinutes: r.MinBookingNoticeMinutes,
	}
}
