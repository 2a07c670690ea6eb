package complete_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
	"github.com/m04kA/MediLog-SchedulingService/internal/events"
	"github.com/m04kA/MediLog-SchedulingService/internal/infra/storage/storagetest"
	"github.com/m04kA/MediLog-SchedulingService/internal/service/slots"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime time.Time

func (f fixedTime) Now() time.Time { return time.Time(f) }

var (
	slotStart = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	booked    = time.Date(2025, 2, 20, 9, 0, 0, 0, time.UTC)
)

const (
	doctorID  = int64(1)
	patientID = int64(101)
)

type fixture struct {
	store   *storagetest.Store
	slotID  int64
	opening *domain.BookingRecord
}

// newFixture слот на 2025-03-01 10:00 с одной подтверждённой записью
func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := storagetest.New()
	id := store.AddSlot(domain.Slot{
		DoctorID: doctorID, StartsAt: slotStart, EndsAt: slotStart.Add(30 * time.Minute),
		Capacity: 1, BookedCount: 1, Active: true,
	})

	start, end := slotStart, slotStart.Add(30*time.Minute)
	opening := domain.NewOpeningRecord(domain.OutcomeConfirmed, domain.ReasonNone, doctorID, patientID, id,
		domain.Actor{ParticipantID: patientID, Role: domain.RolePatient}, booked,
		domain.BookingDetails{SlotStartsAt: &start, SlotEndsAt: &end})
	_, err := store.Ledger().Append(context.Background(), opening)
	require.NoError(t, err)

	return &fixture{store: store, slotID: id, opening: opening}
}

func (f *fixture) useCase(at time.Time) *UseCase {
	slotModel := slots.NewService(f.store.Slots(), nil, nopLogger{})
	return NewUseCase(slotModel, f.store.Ledger(), f.store.TxManager(), events.Nop{}, nil, time.Second, nopLogger{}).
		WithTimeProvider(fixedTime(at))
}

func TestComplete_Success(t *testing.T) {
	f := newFixture(t)
	at := slotStart.Add(40 * time.Minute)

	resp, err := f.useCase(at).Execute(context.Background(), &Request{
		Actor:     domain.Actor{ParticipantID: doctorID, Role: domain.RoleDoctor},
		BookingID: f.opening.BookingID,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCompleted, resp.Status)
	assert.Equal(t, at, resp.CompletedAt)

	sl, _ := f.store.Slot(f.slotID)
	assert.Equal(t, 1, sl.BookedCount, "completed visit keeps its place")

	records := f.store.Records()
	require.Len(t, records, 2)
	assert.Equal(t, domain.OutcomeCompleted, records[1].Outcome)
	assert.Equal(t, domain.ReasonVisitCompleted, records[1].ReasonCode)
}

func TestComplete_Errors(t *testing.T) {
	doctor := domain.Actor{ParticipantID: doctorID, Role: domain.RoleDoctor}
	after := slotStart.Add(time.Hour)

	tests := []struct {
		name    string
		actor   domain.Actor
		at      time.Time
		booking func(f *fixture) uuid.UUID
		wantErr error
	}{
		{
			name:    "unknown booking",
			actor:   doctor,
			at:      after,
			booking: func(*fixture) uuid.UUID { return uuid.New() },
			wantErr: ErrNotFound,
		},
		{
			name:    "patient cannot complete",
			actor:   domain.Actor{ParticipantID: patientID, Role: domain.RolePatient},
			at:      after,
			booking: func(f *fixture) uuid.UUID { return f.opening.BookingID },
			wantErr: ErrForbidden,
		},
		{
			name:    "other doctor",
			actor:   domain.Actor{ParticipantID: 2, Role: domain.RoleDoctor},
			at:      after,
			booking: func(f *fixture) uuid.UUID { return f.opening.BookingID },
			wantErr: ErrForbidden,
		},
		{
			name:    "before appointment starts",
			actor:   doctor,
			at:      slotStart.Add(-time.Minute),
			booking: func(f *fixture) uuid.UUID { return f.opening.BookingID },
			wantErr: ErrCannotComplete,
		},
		{
			name:  "already cancelled",
			actor: domain.Actor{ParticipantID: 9, Role: domain.RoleAdmin},
			at:    after,
			booking: func(f *fixture) uuid.UUID {
				cancelled := f.opening.FollowUp(domain.OutcomeCancelled, domain.ReasonCancelledByPatient,
					domain.Actor{ParticipantID: patientID, Role: domain.RolePatient}, booked.Add(time.Hour))
				_, err := f.store.Ledger().Append(context.Background(), cancelled)
				if err != nil {
					panic(err)
				}
				return f.opening.BookingID
			},
			wantErr: ErrCannotComplete,
		},
		{
			name:    "missing booking id",
			actor:   doctor,
			at:      after,
			booking: func(*fixture) uuid.UUID { return uuid.Nil },
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			id := tt.booking(f)
			before := len(f.store.Records())

			_, err := f.useCase(tt.at).Execute(context.Background(), &Request{Actor: tt.actor, BookingID: id})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Len(t, f.store.Records(), before)
		})
	}
}

func TestComplete_Twice(t *testing.T) {
	f := newFixture(t)
	uc := f.useCase(slotStart.Add(time.Hour))
	req := &Request{Actor: domain.Actor{ParticipantID: doctorID, Role: domain.RoleDoctor}, BookingID: f.opening.BookingID}

	_, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrCannotComplete)
}

func TestComplete_PersistenceFailure(t *testing.T) {
	f := newFixture(t)
	f.store.AppendHook = func(context.Context, *domain.BookingRecord) error {
		return errors.New("connection reset")
	}

	_, err := f.useCase(slotStart.Add(time.Hour)).Execute(context.Background(), &Request{
		Actor:     domain.Actor{ParticipantID: 9, Role: domain.RoleAdmin},
		BookingID: f.opening.BookingID,
	})
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Len(t, f.store.Records(), 1)
}
