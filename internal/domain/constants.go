package domain

// Значения конфигурации по умолчанию
const (
	DefaultSlotDurationMinutes     = 30
	DefaultSlotCapacity            = 1
	DefaultAdvanceBookingDays      = 0 // 0 = без ограничения
	DefaultMinBookingNoticeMinutes = 0
)

// Границы бизнес-валидации
const (
	MinSlotDurationMinutes  = 5
	MaxSlotDurationMinutes  = 480 // 8 часов
	MinSlotCapacity         = 1
	MaxSlotCapacity         = 100
	MinAdvanceBookingDays   = 0
	MaxAdvanceBookingDays   = 365
	MinBookingNoticeMinutes = 0
	MaxBookingNoticeMinutes = 10080 // неделя
	MaxClinicalNoteLength   = 2000
	MaxDetailFieldLength    = 255
)

// Форматы времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
