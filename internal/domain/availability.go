package domain

import (
	"time"

	"github.com/m04kA/MediLog-SchedulingService/pkg/types"
)

// DaySchedule рабочие часы в один день недели
type DaySchedule struct {
	IsOpen    bool
	OpenTime  *string // HH:MM
	CloseTime *string // HH:MM
}

// WorkingHours недельное расписание врача
type WorkingHours struct {
	Monday    DaySchedule
	Tuesday   DaySchedule
	Wednesday DaySchedule
	Thursday  DaySchedule
	Friday    DaySchedule
	Saturday  DaySchedule
	Sunday    DaySchedule
}

// ForDay расписание на день недели даты
func (w WorkingHours) ForDay(date time.Time) DaySchedule {
	switch date.Weekday() {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	case time.Sunday:
		return w.Sunday
	default:
		return DaySchedule{}
	}
}

// Availability когда врач принимает. Часы заданы в зоне Location
type Availability struct {
	DoctorID     int64
	WorkingHours WorkingHours
	BlockedDates []time.Time // только дата, время игнорируется
	Location     *time.Location
}

func (a *Availability) location() *time.Location {
	if a.Location == nil {
		return time.UTC
	}
	return a.Location
}

// IsBlocked true, если дата (в зоне врача) заблокирована
func (a *Availability) IsBlocked(date time.Time) bool {
	loc := a.location()
	y, m, d := date.In(loc).Date()
	for _, b := range a.BlockedDates {
		by, bm, bd := b.Date()
		if by == y && bm == m && bd == d {
			return true
		}
	}
	return false
}

// Hours время начала и конца приёма в указанную дату.
// ok=false, если врач в этот день не принимает
func (a *Availability) Hours(date time.Time) (openAt, closeAt time.Time, ok bool) {
	loc := a.location()
	local := date.In(loc)

	if a.IsBlocked(local) {
		return time.Time{}, time.Time{}, false
	}

	day := a.WorkingHours.ForDay(local)
	if !day.IsOpen || day.OpenTime == nil || day.CloseTime == nil {
		return time.Time{}, time.Time{}, false
	}

	openTS, err := types.NewTimeStringFromString(*day.OpenTime)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	closeTS, err := types.NewTimeStringFromString(*day.CloseTime)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}

	openAt, err = openTS.On(local, loc)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	closeAt, err = closeTS.On(local, loc)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	if !openAt.Before(closeAt) {
		return time.Time{}, time.Time{}, false
	}

	return openAt, closeAt, true
}

// Covers true, если интервал [start, end) целиком внутри рабочих часов одного дня
func (a *Availability) Covers(start, end time.Time) bool {
	if !start.Before(end) {
		return false
	}
	openAt, closeAt, ok := a.Hours(start)
	if !ok {
		return false
	}
	return !start.Before(openAt) && !end.After(closeAt)
}
