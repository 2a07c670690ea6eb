package get_schedule_config

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/MediLog-SchedulingService/internal/service/schedule/models"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Get(ctx context.Context, doctorID int64) (*models.ConfigResponse, error) {
	args := m.Called(ctx, doctorID)
	resp, _ := args.Get(0).(*models.ConfigResponse)
	return resp, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(svc ScheduleService, path string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/doctors/{doctorId}/schedule-config", NewHandler(svc, nopLogger{}).Handle)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHandle(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		svc := &mockService{}
		svc.On("Get", mock.Anything, int64(1)).Return(&models.ConfigResponse{
			Level: "default", SlotDurationMinutes: 30, SlotCapacity: 1, AdvanceBookingDays: 30, MinBookingNoticeMinutes: 60,
		}, nil)

		w := serve(svc, "/api/v1/doctors/1/schedule-config")
		require.Equal(t, http.StatusOK, w.Code)

		var body models.ConfigResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "default", body.Level)
		assert.Equal(t, 30, body.SlotDurationMinutes)
		svc.AssertExpectations(t)
	})

	t.Run("bad doctor id", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, serve(&mockService{}, "/api/v1/doctors/0/schedule-config").Code)
		assert.Equal(t, http.StatusBadRequest, serve(&mockService{}, "/api/v1/doctors/x/schedule-config").Code)
	})

	t.Run("internal", func(t *testing.T) {
		svc := &mockService{}
		svc.On("Get", mock.Anything, int64(1)).Return(nil, errors.New("db down"))
		assert.Equal(t, http.StatusInternalServerError, serve(svc, "/api/v1/doctors/1/schedule-config").Code)
	})
}
