package get_available_slots

import (
	"time"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
)

// generateSlots нарезает рабочие часы [openAt, closeAt) на слоты фиксированной длины.
// Хвост короче slotDuration отбрасывается.
// Слоты, начинающиеся раньше notBefore, не генерируются
func generateSlots(
	doctorID int64,
	openAt, closeAt time.Time,
	slotDuration time.Duration,
	capacity int,
	notBefore time.Time,
) []*domain.Slot {
	result := make([]*domain.Slot, 0)
	if slotDuration <= 0 {
		return result
	}

	for start := openAt; start.Before(closeAt); start = start.Add(slotDuration) {
		end := start.Add(slotDuration)
		if end.After(closeAt) {
			break
		}
		if start.Before(notBefore) {
			continue
		}

		result = append(result, &domain.Slot{
			DoctorID: doctorID,
			StartsAt: start,
			EndsAt:   end,
			Capacity: capacity,
			Active:   true,
			Source:   domain.SlotSourceGenerated,
		})
	}

	return result
}

// toResponseSlots оставляет слоты, на которые ещё можно записаться, и считает свободные места
func toResponseSlots(slots []*domain.Slot, notBefore time.Time) []Slot {
	result := make([]Slot, 0, len(slots))
	for _, s := range slots {
		if s.StartsAt.Before(notBefore) {
			continue
		}
		result = append(result, Slot{
			SlotID:          s.ID,
			StartsAt:        s.StartsAt,
			EndsAt:          s.EndsAt,
			DurationMinutes: int(s.Duration() / time.Minute),
			AvailableSpots:  s.AvailableSpots(),
			TotalSpots:      s.Capacity,
		})
	}
	return result
}

// startOfDay полночь даты date в зоне loc
func startOfDay(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// isDateInPast проверяет, что день раньше сегодняшнего (в зоне day)
func isDateInPast(day, now time.Time) bool {
	today := startOfDay(now.In(day.Location()), day.Location())
	return day.Before(today)
}
