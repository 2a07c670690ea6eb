package cancel_booking

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
	"github.com/m04kA/MediLog-SchedulingService/internal/integrations/doctorservice"
	"github.com/m04kA/MediLog-SchedulingService/internal/service/schedule"
	"github.com/m04kA/MediLog-SchedulingService/internal/service/slots"
	"github.com/m04kA/MediLog-SchedulingService/internal/usecase/request_booking"
	"github.com/m04kA/MediLog-SchedulingService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime time.Time

func (f fixedTime) Now() time.Time { return time.Time(f) }

type saturdayDirectory struct{}

func (saturdayDirectory) GetAvailability(_ context.Context, doctorID int64) (*domain.Availability, *doctorservice.Doctor, error) {
	return &domain.Availability{
			DoctorID: doctorID,
			WorkingHours: domain.WorkingHours{
				Saturday: domain.DaySchedule{IsOpen: true, OpenTime: ptr.Ptr("09:00"), CloseTime: ptr.Ptr("13:00")},
			},
		},
		&doctorservice.Doctor{ID: doctorID, Name: "Dr. Smith"},
		nil
}

var (
	now     = time.Date(2025, 2, 20, 9, 0, 0, 0, time.UTC)
	s1Start = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
)

const (
	doctorD1  = int64(1)
	patientP1 = int64(101)
	patientP2 = int64(102)
)

type fixture struct {
	store   *storagetest.Store
	request *request_booking.UseCase
	cancel  *UseCase
	slotS1  int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := storagetest.New()
	slotModel := slots.NewService(store.Slots(), saturdayDirectory{}, nopLogger{}).WithTimeProvider(fixedTime(now))

	request := request_booking.NewUseCase(
		slotModel, store.Ledger(), schedule.NewService(store.Configs(), nopLogger{}), saturdayDirectory{},
		store.TxManager(), events.Nop{}, nil, time.Second, nopLogger{},
	).WithTimeProvider(fixedTime(now))

	cancel := NewUseCase(slotModel, store.Ledger(), store.TxManager(), events.Nop{}, nil, time.Second, nopLogger{}).
		WithTimeProvider(fixedTime(now.Add(time.Hour)))

	id := store.AddSlot(domain.Slot{
		DoctorID: doctorD1, StartsAt: s1Start, EndsAt: s1Start.Add(30 * time.Minute), Capacity: 1, Active: true,
	})

	return &fixture{store: store, request: request, cancel: cancel, slotS1: id}
}

func asPatient(id int64) domain.Actor {
	return domain.Actor{ParticipantID: id, Role: domain.RolePatient}
}

func (f *fixture) book(patientID int64) (*request_booking.Response, error) {
	return f.request.Execute(context.Background(), &request_booking.Request{
		Actor: asPatient(patientID), DoctorID: doctorD1, PatientID: patientID, SlotID: f.slotS1,
	})
}

func (f *fixture) bookedCount(t *testing.T) int {
	t.Helper()
	sl, ok := f.store.Slot(f.slotS1)
	require.True(t, ok)
	return sl.BookedCount
}

func TestWorkedExample_CancelThenRebook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// P1 записывается
	p1, err := f.book(patientP1)
	require.NoError(t, err)
	assert.Equal(t, 1, f.bookedCount(t))

	// P2 получает отказ
	_, err = f.book(patientP2)
	require.ErrorIs(t, err, request_booking.ErrConflict)
	assert.Equal(t, 1, f.bookedCount(t))

	// P1 отменяет
	cancelled, err := f.cancel.Execute(ctx, &Request{Actor: asPatient(patientP1), BookingID: p1.BookingID})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	assert.Equal(t, domain.ReasonCancelledByPatient, cancelled.ReasonCode)
	assert.Equal(t, 0, f.bookedCount(t))

	// P2 записывается снова
	p2, err := f.book(patientP2)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, p2.Status)
	assert.Equal(t, 1, f.bookedCount(t))

	records := f.store.Records()
	require.Len(t, records, 4)
	outcomes := make([]domain.Outcome, 0, len(records))
	for _, rec := range records {
		outcomes = append(outcomes, rec.Outcome)
	}
	assert.Equal(t, []domain.Outcome{
		domain.OutcomeConfirmed,
		domain.OutcomeRejectedConflict,
		domain.OutcomeCancelled,
		domain.OutcomeConfirmed,
	}, outcomes)
	assert.Equal(t, p1.BookingID, records[2].BookingID, "cancellation continues the original booking")
}

func TestCancel_Authorization(t *testing.T) {
	tests := []struct {
		name       string
		actor      domain.Actor
		wantErr    error
		wantReason domain.ReasonCode
	}{
		{name: "other patient", actor: asPatient(patientP2), wantErr: ErrForbidden},
		{name: "other doctor", actor: domain.Actor{ParticipantID: 2, Role: domain.RoleDoctor}, wantErr: ErrForbidden},
		{name: "booking doctor", actor: domain.Actor{ParticipantID: doctorD1, Role: domain.RoleDoctor}, wantReason: domain.ReasonCancelledByDoctor},
		{name: "admin", actor: domain.Actor{ParticipantID: 7, Role: domain.RoleAdmin}, wantReason: domain.ReasonCancelledByAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			booked, err := f.book(patientP1)
			require.NoError(t, err)

			resp, err := f.cancel.Execute(context.Background(), &Request{Actor: tt.actor, BookingID: booked.BookingID})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, 1, f.bookedCount(t))
				assert.Len(t, f.store.Records(), 1, "forbidden attempts do not touch the ledger")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantReason, resp.ReasonCode)
			assert.Equal(t, 0, f.bookedCount(t))
		})
	}
}

func TestCancel_Twice(t *testing.T) {
	f := newFixture(t)
	booked, err := f.book(patientP1)
	require.NoError(t, err)

	req := &Request{Actor: asPatient(patientP1), BookingID: booked.BookingID}
	_, err = f.cancel.Execute(context.Background(), req)
	require.NoError(t, err)

	_, err = f.cancel.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrCannotCancel)
	assert.Equal(t, 0, f.bookedCount(t))
	assert.Len(t, f.store.Records(), 2)
}

func TestCancel_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.cancel.Execute(context.Background(), &Request{Actor: asPatient(patientP1), BookingID: uuid.New()})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.book(patientP1)
	require.NoError(t, err)
	_, err = f.book(patientP2)

	var rejected *request_booking.RejectionError
	require.True(t, errors.As(err, &rejected))

	_, err = f.cancel.Execute(context.Background(), &Request{Actor: asPatient(patientP2), BookingID: rejected.BookingID})
	assert.ErrorIs(t, err, ErrNotFound, "a rejected request has nothing to cancel")

	_, err = f.cancel.Execute(context.Background(), &Request{Actor: asPatient(patientP1)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancel_AppendFailureKeepsReservation(t *testing.T) {
	f := newFixture(t)
	booked, err := f.book(patientP1)
	require.NoError(t, err)

	f.store.AppendHook = func(context.Context, *domain.BookingRecord) error {
		return errors.New("disk full")
	}

	_, err = f.cancel.Execute(context.Background(), &Request{Actor: asPatient(patientP1), BookingID: booked.BookingID})
	require.ErrorIs(t, err, ErrPersistence)
	assert.Equal(t, 1, f.bookedCount(t))
	assert.Len(t, f.store.Records(), 1)
}
