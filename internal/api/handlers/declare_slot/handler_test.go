package declare_slot

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/MediLog-SchedulingService/internal/api/middleware"
	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
	"github.com/m04kA/MediLog-SchedulingService/internal/service/slots"
	"github.com/m04kA/MediLog-SchedulingService/internal/service/slots/models"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Declare(ctx context.Context, req *models.DeclareSlotRequest) (*models.SlotResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.SlotResponse)
	return resp, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const validBody = `{"startsAt":"2025-03-01T10:00:00Z","endsAt":"2025-03-01T10:30:00Z","capacity":1}`

func serve(svc SlotService, path, body string, actor *domain.Actor) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/doctors/{doctorId}/slots", NewHandler(svc, nopLogger{}).Handle).Methods(http.MethodPost)

	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	if actor != nil {
		r = r.WithContext(middleware.WithActor(r.Context(), *actor))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestHandle_Created(t *testing.T) {
	doctor := domain.Actor{ParticipantID: 1, Role: domain.RoleDoctor}
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	svc := &mockService{}
	svc.On("Declare", mock.Anything, mock.MatchedBy(func(req *models.DeclareSlotRequest) bool {
		return req.DoctorID == 1 && req.StartsAt.Equal(start) && req.Capacity == 1 && req.Actor == doctor
	})).Return(&models.SlotResponse{ID: 7, DoctorID: 1, StartsAt: start, Capacity: 1, Active: true, Source: "declared"}, nil)

	w := serve(svc, "/api/v1/doctors/1/slots", validBody, &doctor)
	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	doctor := domain.Actor{ParticipantID: 1, Role: domain.RoleDoctor}

	tests := []struct {
		name       string
		body       string
		actor      *domain.Actor
		err        error
		wantStatus int
	}{
		{name: "no identity", body: validBody, wantStatus: http.StatusUnauthorized},
		{name: "broken body", body: `{"startsAt":`, actor: &doctor, wantStatus: http.StatusBadRequest},
		{name: "invalid data", body: validBody, actor: &doctor, err: slots.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "forbidden", body: validBody, actor: &doctor, err: slots.ErrAccessDenied, wantStatus: http.StatusForbidden},
		{name: "doctor not found", body: validBody, actor: &doctor, err: slots.ErrDoctorNotFound, wantStatus: http.StatusNotFound},
		{name: "outside hours", body: validBody, actor: &doctor, err: fmt.Errorf("%w: outside_availability", slots.ErrInvalidSlot), wantStatus: http.StatusUnprocessableEntity},
		{name: "duplicate", body: validBody, actor: &doctor, err: slots.ErrSlotAlreadyExists, wantStatus: http.StatusConflict},
		{name: "directory down", body: validBody, actor: &doctor, err: slots.ErrDirectoryUnavailable, wantStatus: http.StatusServiceUnavailable},
		{name: "internal", body: validBody, actor: &doctor, err: slots.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			if tt.err != nil {
				svc.On("Declare", mock.Anything, mock.Anything).Return(nil, tt.err)
			}

			w := serve(svc, "/api/v1/doctors/1/slots", tt.body, tt.actor)
			assert.Equal(t, tt.wantStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}
