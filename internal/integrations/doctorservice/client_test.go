package doctorservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const doctorJSON = `{
	"id": 1,
	"name": "Dr. House",
	"speciality": "diagnostics",
	"hospital_name": "Princeton-Plainsboro",
	"working_hours": {
		"saturday": {"is_open": true, "open_time": "09:00", "close_time": "13:00"},
		"sunday": {"is_open": false}
	},
	"blocked_dates": ["2025-03-08"]
}`

func TestClient_GetAvailability(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/internal/doctors/1":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(doctorJSON))
		case "/internal/doctors/2":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, time.UTC, nopLogger{})

	t.Run("found", func(t *testing.T) {
		availability, doctor, err := client.GetAvailability(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "Dr. House", doctor.Name)
		assert.Equal(t, int64(1), availability.DoctorID)

		start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
		assert.True(t, availability.Covers(start, start.Add(30*time.Minute)))
		assert.False(t, availability.Covers(start.AddDate(0, 0, 1), start.AddDate(0, 0, 1).Add(30*time.Minute)))
		assert.True(t, availability.IsBlocked(time.Date(2025, 3, 8, 12, 0, 0, 0, time.UTC)))
	})

	t.Run("not found", func(t *testing.T) {
		_, _, err := client.GetAvailability(context.Background(), 2)
		assert.ErrorIs(t, err, ErrDoctorNotFound)
	})

	t.Run("unavailable", func(t *testing.T) {
		_, _, err := client.GetAvailability(context.Background(), 3)
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

func TestClient_GetDoctor_ConnectionRefused(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 200*time.Millisecond, nil, nopLogger{})

	_, err := client.GetDoctor(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDoctor_ToAvailability_BadTimezone(t *testing.T) {
	d := &Doctor{ID: 1, Timezone: "Mars/Olympus"}

	_, err := d.ToAvailability(time.UTC)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}
