package schedule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
	"github.com/m04kA/MediLog-SchedulingService/internal/infra/storage/storagetest"
	"github.com/m04kA/MediLog-SchedulingService/internal/service/schedule/models"
	"github.com/m04kA/MediLog-SchedulingService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var (
	admin   = domain.Actor{ParticipantID: 99, Role: domain.RoleAdmin}
	doctor1 = domain.Actor{ParticipantID: 1, Role: domain.RoleDoctor}
	patient = domain.Actor{ParticipantID: 10, Role: domain.RolePatient}
)

func TestService_Get_Hierarchy(t *testing.T) {
	store := storagetest.New()
	svc := NewService(store.Configs(), nopLogger{})
	ctx := context.Background()

	resp, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "default", resp.Level)
	assert.Equal(t, domain.DefaultSlotDurationMinutes, resp.SlotDurationMinutes)

	_, err = svc.Update(ctx, &models.UpdateConfigRequest{Actor: admin, SlotDurationMinutes: ptr.Ptr(20)})
	require.NoError(t, err)

	resp, err = svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "global", resp.Level)
	assert.Equal(t, 20, resp.SlotDurationMinutes)

	_, err = svc.Update(ctx, &models.UpdateConfigRequest{
		Actor:        doctor1,
		DoctorID:     ptr.Ptr(int64(1)),
		SlotCapacity: ptr.Ptr(3),
	})
	require.NoError(t, err)

	resp, err = svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "doctor", resp.Level)
	assert.Equal(t, 20, resp.SlotDurationMinutes, "inherits global duration")
	assert.Equal(t, 3, resp.SlotCapacity)

	resp, err = svc.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "global", resp.Level)
}

func TestService_Update_Access(t *testing.T) {
	store := storagetest.New()
	svc := NewService(store.Configs(), nopLogger{})
	ctx := context.Background()

	tests := []struct {
		name     string
		actor    domain.Actor
		doctorID *int64
	}{
		{name: "patient", actor: patient, doctorID: ptr.Ptr(int64(1))},
		{name: "other doctor", actor: doctor1, doctorID: ptr.Ptr(int64(2))},
		{name: "doctor global", actor: doctor1, doctorID: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(ctx, &models.UpdateConfigRequest{
				Actor:        tt.actor,
				DoctorID:     tt.doctorID,
				SlotCapacity: ptr.Ptr(2),
			})
			assert.ErrorIs(t, err, ErrAccessDenied)
		})
	}
}

func TestService_Update_Validation(t *testing.T) {
	store := storagetest.New()
	svc := NewService(store.Configs(), nopLogger{})

	_, err := svc.Update(context.Background(), &models.UpdateConfigRequest{
		Actor:               admin,
		DoctorID:            ptr.Ptr(int64(1)),
		SlotDurationMinutes: ptr.Ptr(1000),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Get(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
