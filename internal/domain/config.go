package domain

import "time"

// ScheduleConfig параметры нарезки слотов.
// Иерархия: конфигурация врача (DoctorID != nil) > глобальная (DoctorID == nil) > значения по умолчанию
type ScheduleConfig struct {
	ID                      int64
	DoctorID                *int64 // NULL = глобальная конфигурация
	SlotDurationMinutes     int
	SlotCapacity            int
	AdvanceBookingDays      int // 0 = без ограничения
	MinBookingNoticeMinutes int
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// DefaultScheduleConfig конфигурация, если в БД ничего нет
func DefaultScheduleConfig() *ScheduleConfig {
	return &ScheduleConfig{
		SlotDurationMinutes:     DefaultSlotDurationMinutes,
		SlotCapacity:            DefaultSlotCapacity,
		AdvanceBookingDays:      DefaultAdvanceBookingDays,
		MinBookingNoticeMinutes: DefaultMinBookingNoticeMinutes,
	}
}

// IsGlobalConfig true для глобальной конфигурации
func (c *ScheduleConfig) IsGlobalConfig() bool {
	return c.DoctorID == nil
}

// HasAdvanceBookingLimit true, если запись ограничена по горизонту
func (c *ScheduleConfig) HasAdvanceBookingLimit() bool {
	return c.AdvanceBookingDays > 0
}

// SlotDuration длительность слота
func (c *ScheduleConfig) SlotDuration() time.Duration {
	return time.Duration(c.SlotDurationMinutes) * time.Minute
}

// CheckBookingWindow проверяет окно записи: не позже minNotice до начала и не дальше горизонта
func (c *ScheduleConfig) CheckBookingWindow(startsAt, now time.Time) ReasonCode {
	if startsAt.Before(now.Add(time.Duration(c.MinBookingNoticeMinutes) * time.Minute)) {
		return ReasonTooLate
	}
	if c.HasAdvanceBookingLimit() && startsAt.After(now.AddDate(0, 0, c.AdvanceBookingDays)) {
		return ReasonTooFar
	}
	return ReasonNone
}
