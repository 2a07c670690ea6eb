package get_my_appointments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/MediLog-SchedulingService/internal/api/middleware"
	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
	"github.com/m04kA/MediLog-SchedulingService/internal/service/appointments"
	"github.com/m04kA/MediLog-SchedulingService/internal/service/appointments/models"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) UpcomingFor(ctx context.Context, req *models.ParticipantRequest) (*models.AppointmentListResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.AppointmentListResponse)
	return resp, args.Error(1)
}

func (m *mockService) PastFor(ctx context.Context, req *models.ParticipantRequest) (*models.AppointmentListResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.AppointmentListResponse)
	return resp, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var patient = domain.Actor{ParticipantID: 101, Role: domain.RolePatient}

func get(h *Handler, target string, actor *domain.Actor) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, target, nil)
	if actor != nil {
		r = r.WithContext(middleware.WithActor(r.Context(), *actor))
	}
	w := httptest.NewRecorder()
	h.Handle(w, r)
	return w
}

func TestToServiceRequest(t *testing.T) {
	req, err := ToServiceRequest(patient, "")
	require.NoError(t, err)
	assert.True(t, req.AsOf.IsZero())

	req, err = ToServiceRequest(patient, "2025-02-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), req.AsOf)

	req, err = ToServiceRequest(patient, "2025-03-01T10:15:00+03:00")
	require.NoError(t, err)
	assert.True(t, req.AsOf.Equal(time.Date(2025, 3, 1, 7, 15, 0, 0, time.UTC)))

	_, err = ToServiceRequest(patient, "yesterday")
	assert.Error(t, err)
}

func TestHandle_Upcoming(t *testing.T) {
	bookingID := uuid.New()
	asOf := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	svc := &mockService{}
	svc.On("UpcomingFor", mock.Anything, &models.ParticipantRequest{Actor: patient, AsOf: asOf}).
		Return(&models.AppointmentListResponse{
			Appointments: []models.AppointmentResponse{{BookingID: bookingID, Status: "CONFIRMED"}},
		}, nil)

	w := get(NewHandler(svc, PeriodUpcoming, nopLogger{}), "/api/v1/me/appointments/upcoming?asOf=2025-02-01", &patient)
	require.Equal(t, http.StatusOK, w.Code)

	var body models.AppointmentListResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Len(t, body.Appointments, 1)
	assert.Equal(t, bookingID, body.Appointments[0].BookingID)
	svc.AssertExpectations(t)
	svc.AssertNotCalled(t, "PastFor", mock.Anything, mock.Anything)
}

func TestHandle_PastEmpty(t *testing.T) {
	svc := &mockService{}
	svc.On("PastFor", mock.Anything, mock.Anything).
		Return(&models.AppointmentListResponse{Appointments: []models.AppointmentResponse{}}, nil)

	w := get(NewHandler(svc, PeriodPast, nopLogger{}), "/api/v1/me/appointments/past", &patient)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"appointments":[]}`, w.Body.String())
}

func TestHandle_Errors(t *testing.T) {
	admin := domain.Actor{ParticipantID: 1, Role: domain.RoleAdmin}

	t.Run("no identity", func(t *testing.T) {
		w := get(NewHandler(&mockService{}, PeriodUpcoming, nopLogger{}), "/api/v1/me/appointments/upcoming", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bad asOf", func(t *testing.T) {
		w := get(NewHandler(&mockService{}, PeriodUpcoming, nopLogger{}), "/api/v1/me/appointments/upcoming?asOf=soon", &patient)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("admin has no own list", func(t *testing.T) {
		svc := &mockService{}
		svc.On("UpcomingFor", mock.Anything, mock.Anything).Return(nil, appointments.ErrInvalidInput)
		w := get(NewHandler(svc, PeriodUpcoming, nopLogger{}), "/api/v1/me/appointments/upcoming", &admin)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("internal", func(t *testing.T) {
		svc := &mockService{}
		svc.On("PastFor", mock.Anything, mock.Anything).Return(nil, appointments.ErrInternal)
		w := get(NewHandler(svc, PeriodPast, nopLogger{}), "/api/v1/me/appointments/past", &patient)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
