package get_available_slots

import "time"

// Request модель запроса на получение свободных слотов
type Request struct {
	DoctorID int64     // ID врача
	Date     time.Time // Дата (время игнорируется), трактуется в часовом поясе врача
}

// Response модель ответа со списком слотов на день
type Response struct {
	Date       time.Time
	DoctorID   int64
	DoctorName string
	Slots      []Slot
}

// Slot модель слота в выдаче
type Slot struct {
	SlotID          int64
	StartsAt        time.Time
	EndsAt          time.Time
	DurationMinutes int
	AvailableSpots  int // Количество свободных мест
	TotalSpots      int // Вместимость слота
}
