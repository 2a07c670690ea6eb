package verify_projection

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

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

func (m *mockService) VerifyReplay(ctx context.Context, actor domain.Actor) (*models.ReplayReport, error) {
	args := m.Called(ctx, actor)
	resp, _ := args.Get(0).(*models.ReplayReport)
	return resp, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func post(svc AppointmentService, actor *domain.Actor) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/admin/projections/verify", nil)
	if actor != nil {
		r = r.WithContext(middleware.WithActor(r.Context(), *actor))
	}
	w := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).Handle(w, r)
	return w
}

func TestHandle(t *testing.T) {
	admin := domain.Actor{ParticipantID: 1, Role: domain.RoleAdmin}
	doctor := domain.Actor{ParticipantID: 1, Role: domain.RoleDoctor}

	t.Run("report", func(t *testing.T) {
		svc := &mockService{}
		svc.On("VerifyReplay", mock.Anything, admin).Return(&models.ReplayReport{
			Records: 4, Bookings: 3, LastSeq: 4, Deterministic: true,
		}, nil)

		w := post(svc, &admin)
		require.Equal(t, http.StatusOK, w.Code)

		var body models.ReplayReport
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.True(t, body.Deterministic)
		assert.Equal(t, int64(4), body.LastSeq)
	})

	t.Run("no identity", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, post(&mockService{}, nil).Code)
	})

	t.Run("not admin", func(t *testing.T) {
		svc := &mockService{}
		svc.On("VerifyReplay", mock.Anything, doctor).Return(nil, appointments.ErrAccessDenied)
		assert.Equal(t, http.StatusForbidden, post(svc, &doctor).Code)
	})
}
