package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
	"github.com/m04kA/MediLog-SchedulingService/pkg/metrics"
)

func TestAuth(t *testing.T) {
	var got domain.Actor
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetActor(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name       string
		id         string
		role       string
		wantStatus int
		wantActor  domain.Actor
	}{
		{name: "patient", id: "101", role: "patient", wantStatus: http.StatusNoContent,
			wantActor: domain.Actor{ParticipantID: 101, Role: domain.RolePatient}},
		{name: "admin", id: "1", role: "admin", wantStatus: http.StatusNoContent,
			wantActor: domain.Actor{ParticipantID: 1, Role: domain.RoleAdmin}},
		{name: "missing id", role: "doctor", wantStatus: http.StatusUnauthorized},
		{name: "missing role", id: "5", wantStatus: http.StatusUnauthorized},
		{name: "bad id", id: "abc", role: "doctor", wantStatus: http.StatusUnauthorized},
		{name: "negative id", id: "-3", role: "doctor", wantStatus: http.StatusUnauthorized},
		{name: "unknown role", id: "5", role: "nurse", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = domain.Actor{}
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.id != "" {
				r.Header.Set(HeaderUserID, tt.id)
			}
			if tt.role != "" {
				r.Header.Set(HeaderUserRole, tt.role)
			}
			w := httptest.NewRecorder()

			Auth(next).ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantActor, got)
		})
	}
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	m := metrics.New("test")

	router := mux.NewRouter()
	router.Use(MetricsMiddleware(m))
	router.HandleFunc("/appointments/{bookingId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	for _, id := range []string{"a", "b"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/appointments/"+id, nil))
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(
		m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/appointments/{bookingId}", "404")))
}
