package domain

// Role роль участника, определяется на стороне сервера (из заголовков шлюза)
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

// ParseRole разбирает роль; неизвестная роль - false
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return r, true
	default:
		return "", false
	}
}

// Capability действие, которое может быть разрешено роли
type Capability string

const (
	CapBookForSelf     Capability = "book:self"
	CapBookForAnyone   Capability = "book:any"
	CapCancelOwn       Capability = "cancel:own"
	CapCancelAny       Capability = "cancel:any"
	CapCompleteOwn     Capability = "complete:own"
	CapCompleteAny     Capability = "complete:any"
	CapManageOwnSlots  Capability = "slots:own"
	CapManageAnySlots  Capability = "slots:any"
	CapViewOwn         Capability = "appointments:own"
	CapViewAll         Capability = "appointments:all"
	CapVerifyLedger    Capability = "ledger:verify"
)

var roleCapabilities = map[Role][]Capability{
	RolePatient: {CapBookForSelf, CapCancelOwn, CapViewOwn},
	RoleDoctor:  {CapCancelOwn, CapCompleteOwn, CapManageOwnSlots, CapViewOwn},
	RoleAdmin: {
		CapBookForAnyone, CapCancelAny, CapCompleteAny, CapManageAnySlots,
		CapViewOwn, CapViewAll, CapVerifyLedger,
	},
}

// Actor участник, от имени которого выполняется операция.
// Для врача ParticipantID совпадает с doctorId
type Actor struct {
	ParticipantID int64
	Role          Role
}

// Can true, если роль актора дает capability
func (a Actor) Can(c Capability) bool {
	for _, granted := range roleCapabilities[a.Role] {
		if granted == c {
			return true
		}
	}
	return false
}

// IsParticipantOf true, если актор пациент или врач этой записи
func (a Actor) IsParticipantOf(doctorID, patientID int64) bool {
	switch a.Role {
	case RolePatient:
		return a.ParticipantID == patientID
	case RoleDoctor:
		return a.ParticipantID == doctorID
	default:
		return false
	}
}

// CanBookFor true, если актор может записать patientID
func (a Actor) CanBookFor(patientID int64) bool {
	if a.Can(CapBookForAnyone) {
		return true
	}
	return a.Can(CapBookForSelf) && a.Role == RolePatient && a.ParticipantID == patientID
}

// CanCancel true, если актор может отменить запись врача doctorID и пациента patientID
func (a Actor) CanCancel(doctorID, patientID int64) bool {
	if a.Can(CapCancelAny) {
		return true
	}
	return a.Can(CapCancelOwn) && a.IsParticipantOf(doctorID, patientID)
}

// CanComplete true, если актор может отметить приём завершённым
func (a Actor) CanComplete(doctorID int64) bool {
	if a.Can(CapCompleteAny) {
		return true
	}
	return a.Can(CapCompleteOwn) && a.Role == RoleDoctor && a.ParticipantID == doctorID
}

// CanManageSlotsOf true, если актор может объявлять и снимать слоты врача
func (a Actor) CanManageSlotsOf(doctorID int64) bool {
	if a.Can(CapManageAnySlots) {
		return true
	}
	return a.Can(CapManageOwnSlots) && a.Role == RoleDoctor && a.ParticipantID == doctorID
}

// CanView true, если актор может видеть запись
func (a Actor) CanView(doctorID, patientID int64) bool {
	return a.Can(CapViewAll) || (a.Can(CapViewOwn) && a.IsParticipantOf(doctorID, patientID))
}
