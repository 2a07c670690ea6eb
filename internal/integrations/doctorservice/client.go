package doctorservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
)

// Client клиент справочника врачей
type Client struct {
	baseURL    string
	httpClient *http.Client
	location   *time.Location
	log        Logger
}

// NewClient создает новый экземпляр клиента справочника врачей.
// location - зона по умолчанию для врачей без собственной зоны
func NewClient(baseURL string, timeout time.Duration, location *time.Location, log Logger) *Client {
	if location == nil {
		location = time.UTC
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		location: location,
		log:      log,
	}
}

// GetDoctor получает карточку врача
func (c *Client) GetDoctor(ctx context.Context, doctorID int64) (*Doctor, error) {
	url := fmt.Sprintf("%s/internal/doctors/%d", c.baseURL, doctorID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrDoctorNotFound
	case resp.StatusCode >= http.StatusInternalServerError:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status code %d: %s", ErrUnavailable, resp.StatusCode, string(body))
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var doctor Doctor
	if err := json.NewDecoder(resp.Body).Decode(&doctor); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &doctor, nil
}

// GetAvailability рабочие часы и заблокированные дни врача в доменной модели
func (c *Client) GetAvailability(ctx context.Context, doctorID int64) (*domain.Availability, *Doctor, error) {
	doctor, err := c.GetDoctor(ctx, doctorID)
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			c.log.Info("Doctor id=%d not found in directory", doctorID)
		} else {
			c.log.Error("Doctor directory request failed for doctor_id=%d: %v", doctorID, err)
		}
		return nil, nil, err
	}

	availability, err := doctor.ToAvailability(c.location)
	if err != nil {
		return nil, nil, err
	}

	return availability, doctor, nil
}

// ToAvailability переводит карточку врача в доменную модель
func (d *Doctor) ToAvailability(fallback *time.Location) (*domain.Availability, error) {
	loc := fallback
	if d.Timezone != "" {
		parsed, err := time.LoadLocation(d.Timezone)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown timezone %q: %v", ErrInvalidResponse, d.Timezone, err)
		}
		loc = parsed
	}

	blocked := make([]time.Time, 0, len(d.BlockedDates))
	for _, s := range d.BlockedDates {
		date, err := time.ParseInLocation(domain.DateFormat, s, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: blocked date %q: %v", ErrInvalidResponse, s, err)
		}
		blocked = append(blocked, date)
	}

	return &domain.Availability{
		DoctorID: d.ID,
		WorkingHours: domain.WorkingHours{
			Monday:    d.WorkingHours.Monday.toDomain(),
			Tuesday:   d.WorkingHours.Tuesday.toDomain(),
			Wednesday: d.WorkingHours.Wednesday.toDomain(),
			Thursday:  d.WorkingHours.Thursday.toDomain(),
			Friday:    d.WorkingHours.Friday.toDomain(),
			Saturday:  d.WorkingHours.Saturday.toDomain(),
			Sunday:    d.WorkingHours.Sunday.toDomain(),
		},
		BlockedDates: blocked,
		Location:     loc,
	}, nil
}

func (s DaySchedule) toDomain() domain.DaySchedule {
	return domain.DaySchedule{
		IsOpen:    s.IsOpen,
		OpenTime:  s.OpenTime,
		CloseTime: s.CloseTime,
	}
}
