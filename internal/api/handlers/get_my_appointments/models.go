package get_my_appointments

import (
	"time"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
	"github.com/m04kA/MediLog-SchedulingService/internal/service/appointments/models"
)

// Period какую часть записей вернуть относительно момента asOf
type Period string

const (
	PeriodUpcoming Period = "upcoming"
	PeriodPast     Period = "past"
)

// ToServiceRequest формирует запрос к сервису.
// asOf принимается в RFC3339 или как дата YYYY-MM-DD (полночь UTC); пустое значение - текущий момент
func ToServiceRequest(actor domain.Actor, asOfStr string) (*models.ParticipantRequest, error) {
	req := &models.ParticipantRequest{Actor: actor}
	if asOfStr == "" {
		return req, nil
	}

	asOf, err := time.Parse(time.RFC3339, asOfStr)
	if err != nil {
		asOf, err = time.Parse(domain.DateFormat, asOfStr)
		if err != nil {
			return nil, err
		}
	}
	req.AsOf = asOf

	return req, nil
}
