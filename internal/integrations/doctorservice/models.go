package doctorservice

// DaySchedule рабочие часы в один день недели
type DaySchedule struct {
	IsOpen    bool    `json:"is_open"`
	OpenTime  *string `json:"open_time,omitempty"`  // HH:MM
	CloseTime *string `json:"close_time,omitempty"` // HH:MM
}

// WorkingHours недельное расписание врача
type WorkingHours struct {
	Monday    DaySchedule `json:"monday"`
	Tuesday   DaySchedule `json:"tuesday"`
	Wednesday DaySchedule `json:"wednesday"`
	Thursday  DaySchedule `json:"thursday"`
	Friday    DaySchedule `json:"friday"`
	Saturday  DaySchedule `json:"saturday"`
	Sunday    DaySchedule `json:"sunday"`
}

// Doctor модель врача из справочника
type Doctor struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Speciality   string       `json:"speciality"`
	HospitalName string       `json:"hospital_name"`
	Timezone     string       `json:"timezone,omitempty"` // IANA, пусто = зона сервиса
	WorkingHours WorkingHours `json:"working_hours"`
	BlockedDates []string     `json:"blocked_dates"` // YYYY-MM-DD
}

// ErrorResponse модель ошибки от справочника
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
