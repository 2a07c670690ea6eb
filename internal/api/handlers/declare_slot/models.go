package declare_slot

import (
	"time"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
	"github.com/m04kA/MediLog-SchedulingService/internal/service/slots/models"
)

// DeclareSlotRequest HTTP request model
type DeclareSlotRequest struct {
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
	Capacity int       `json:"capacity"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *DeclareSlotRequest) ToServiceRequest(actor domain.Actor, doctorID int64) *models.DeclareSlotRequest {
	return &models.DeclareSlotRequest{
		Actor:    actor,
		DoctorID: doctorID,
		StartsAt: r.StartsAt,
		EndsAt:   r.EndsAt,
		Capacity: r.Capacity,
	}
}
