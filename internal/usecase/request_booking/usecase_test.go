package request_booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
	"github.com/m04kA/MediLog-SchedulingService/internal/events"
	"github.com/m04kA/MediLog-SchedulingService/internal/infra/storage/storagetest"
	"github.com/m04kA/MediLog-SchedulingService/internal/integrations/doctorservice"
	"github.com/m04kA/MediLog-SchedulingService/internal/service/schedule"
	"github.com/m04kA/MediLog-SchedulingService/internal/service/slots"
	"github.com/m04kA/MediLog-SchedulingService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime time.Time

func (f fixedTime) Now() time.Time { return time.Time(f) }

type fakeDirectory struct {
	err error
}

func (f *fakeDirectory) GetAvailability(_ context.Context, doctorID int64) (*domain.Availability, *doctorservice.Doctor, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return &domain.Availability{
			DoctorID: doctorID,
			WorkingHours: domain.WorkingHours{
				Saturday: domain.DaySchedule{IsOpen: true, OpenTime: ptr.Ptr("09:00"), CloseTime: ptr.Ptr("13:00")},
			},
		},
		&doctorservice.Doctor{ID: doctorID, Name: "Dr. Smith", HospitalName: "City Hospital"},
		nil
}

type countingMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (m *countingMetrics) RecordBookingOutcome(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcomes == nil {
		m.outcomes = make(map[string]int)
	}
	m.outcomes[outcome]++
}

var (
	now     = time.Date(2025, 2, 20, 9, 0, 0, 0, time.UTC)
	s1Start = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) // суббота
)

const doctorD1 = int64(1)

type fixture struct {
	store     *storagetest.Store
	directory *fakeDirectory
	metrics   *countingMetrics
	uc        *UseCase
	slotS1    int64
}

func newFixture(t *testing.T, capacity int, timeout time.Duration) *fixture {
	t.Helper()

	store := storagetest.New()
	dir := &fakeDirectory{}
	m := &countingMetrics{}

	slotModel := slots.NewService(store.Slots(), dir, nopLogger{}).WithTimeProvider(fixedTime(now))
	configs := schedule.NewService(store.Configs(), nopLogger{})

	uc := NewUseCase(slotModel, store.Ledger(), configs, dir, store.TxManager(), events.Nop{}, m, timeout, nopLogger{}).
		WithTimeProvider(fixedTime(now))

	id := store.AddSlot(domain.Slot{
		DoctorID: doctorD1,
		StartsAt: s1Start,
		EndsAt:   s1Start.Add(30 * time.Minute),
		Capacity: capacity,
		Active:   true,
	})

	return &fixture{store: store, directory: dir, metrics: m, uc: uc, slotS1: id}
}

func patient(id int64) domain.Actor {
	return domain.Actor{ParticipantID: id, Role: domain.RolePatient}
}

func (f *fixture) book(patientID int64) (*Response, error) {
	return f.uc.Execute(context.Background(), &Request{
		Actor:     patient(patientID),
		DoctorID:  doctorD1,
		PatientID: patientID,
		SlotID:    f.slotS1,
	})
}

func (f *fixture) bookedCount(t *testing.T) int {
	t.Helper()
	sl, ok := f.store.Slot(f.slotS1)
	require.True(t, ok)
	return sl.BookedCount
}

func TestExecute_ConfirmThenConflict(t *testing.T) {
	f := newFixture(t, 1, time.Second)

	p1, err := f.book(101)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, p1.Status)
	assert.False(t, p1.Replayed)
	require.NotNil(t, p1.StartsAt)
	assert.True(t, s1Start.Equal(*p1.StartsAt))
	require.NotNil(t, p1.Details.DoctorName)
	assert.Equal(t, "Dr. Smith", *p1.Details.DoctorName)
	assert.Equal(t, 1, f.bookedCount(t))

	_, err = f.book(102)
	require.ErrorIs(t, err, ErrConflict)

	var rejected *RejectionError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, domain.ReasonSlotFull, rejected.Reason)
	assert.Equal(t, 1, f.bookedCount(t))

	records := f.store.Records()
	require.Len(t, records, 2)
	assert.Equal(t, domain.OutcomeConfirmed, records[0].Outcome)
	assert.Equal(t, domain.OutcomeRejectedConflict, records[1].Outcome)
	assert.Equal(t, rejected.BookingID, records[1].BookingID)
	assert.Equal(t, domain.IdempotencyKey(doctorD1, 102, f.slotS1), records[1].IdempotencyKey)

	assert.Equal(t, map[string]int{"CONFIRMED": 1, "REJECTED_CONFLICT": 1}, f.metrics.outcomes)
}

func TestExecute_NoOverbookingUnderConcurrency(t *testing.T) {
	const (
		requests = 40
		capacity = 3
	)
	f := newFixture(t, capacity, 5*time.Second)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		confirmed int
		conflicts int
		others    []error
	)

	start := make(chan struct{})
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func(patientID int64) {
			defer wg.Done()
			<-start

			_, err := f.book(patientID)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				confirmed++
			case errors.Is(err, ErrConflict):
				conflicts++
			default:
				others = append(others, err)
			}
		}(int64(1000 + i))
	}
	close(start)
	wg.Wait()

	require.Empty(t, others)
	assert.Equal(t, capacity, confirmed)
	assert.Equal(t, requests-capacity, conflicts)
	assert.Equal(t, capacity, f.bookedCount(t))

	records := f.store.Records()
	require.Len(t, records, requests, "every request is in the ledger")

	byOutcome := make(map[domain.Outcome]int)
	for _, rec := range records {
		byOutcome[rec.Outcome]++
	}
	assert.Equal(t, capacity, byOutcome[domain.OutcomeConfirmed])
	assert.Equal(t, requests-capacity, byOutcome[domain.OutcomeRejectedConflict])
}

func TestExecute_IdempotentRetry(t *testing.T) {
	f := newFixture(t, 2, time.Second)

	first, err := f.book(101)
	require.NoError(t, err)

	second, err := f.book(101)
	require.NoError(t, err)

	assert.True(t, second.Replayed)
	assert.Equal(t, first.BookingID, second.BookingID)
	assert.Equal(t, 1, f.bookedCount(t))
	assert.Len(t, f.store.Records(), 1)
}

func TestExecute_RetryAfterSlotChanged(t *testing.T) {
	tests := []struct {
		name   string
		change func(t *testing.T, f *fixture)
	}{
		{
			name: "slot deactivated",
			change: func(t *testing.T, f *fixture) {
				require.NoError(t, f.store.Slots().SetActive(context.Background(), f.slotS1, false))
			},
		},
		{
			name: "slot already started",
			change: func(t *testing.T, f *fixture) {
				f.uc.WithTimeProvider(fixedTime(s1Start.Add(time.Minute)))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 2, time.Second)

			first, err := f.book(101)
			require.NoError(t, err)

			tt.change(t, f)

			retry, err := f.book(101)
			require.NoError(t, err)
			assert.True(t, retry.Replayed)
			assert.Equal(t, first.BookingID, retry.BookingID)
			assert.Equal(t, domain.StatusConfirmed, retry.Status)
			assert.Len(t, f.store.Records(), 1, "a retry appends nothing")

			// другой пациент по-прежнему получает отказ
			_, err = f.book(102)
			assert.ErrorIs(t, err, ErrInvalidSlot)
			assert.Len(t, f.store.Records(), 2)
			assert.Equal(t, 1, f.bookedCount(t))
		})
	}
}

func TestExecute_InvalidSlot(t *testing.T) {
	tests := []struct {
		name       string
		prepare    func(f *fixture) *Request
		wantReason domain.ReasonCode
	}{
		{
			name: "slot not found",
			prepare: func(f *fixture) *Request {
				return &Request{Actor: patient(101), DoctorID: doctorD1, PatientID: 101, SlotID: 999}
			},
			wantReason: domain.ReasonSlotNotFound,
		},
		{
			name: "inactive slot",
			prepare: func(f *fixture) *Request {
				require.NoError(t, f.store.Slots().SetActive(context.Background(), f.slotS1, false))
				return &Request{Actor: patient(101), DoctorID: doctorD1, PatientID: 101, SlotID: f.slotS1}
			},
			wantReason: domain.ReasonSlotInactive,
		},
		{
			name: "slot in the past",
			prepare: func(f *fixture) *Request {
				id := f.store.AddSlot(domain.Slot{
					DoctorID: doctorD1, StartsAt: now.Add(-time.Hour), EndsAt: now.Add(-30 * time.Minute),
					Capacity: 1, Active: true,
				})
				return &Request{Actor: patient(101), DoctorID: doctorD1, PatientID: 101, SlotID: id}
			},
			wantReason: domain.ReasonSlotInPast,
		},
		{
			name: "outside working hours",
			prepare: func(f *fixture) *Request {
				start := s1Start.Add(5 * time.Hour)
				id := f.store.AddSlot(domain.Slot{
					DoctorID: doctorD1, StartsAt: start, EndsAt: start.Add(30 * time.Minute),
					Capacity: 1, Active: true,
				})
				return &Request{Actor: patient(101), DoctorID: doctorD1, PatientID: 101, SlotID: id}
			},
			wantReason: domain.ReasonOutsideAvailability,
		},
		{
			name: "slot of another doctor",
			prepare: func(f *fixture) *Request {
				return &Request{Actor: patient(101), DoctorID: 2, PatientID: 101, SlotID: f.slotS1}
			},
			wantReason: domain.ReasonDoctorMismatch,
		},
		{
			name: "unknown doctor",
			prepare: func(f *fixture) *Request {
				f.directory.err = doctorservice.ErrDoctorNotFound
				return &Request{Actor: patient(101), DoctorID: doctorD1, PatientID: 101, SlotID: f.slotS1}
			},
			wantReason: domain.ReasonDoctorNotFound,
		},
		{
			name: "minimum notice",
			prepare: func(f *fixture) *Request {
				_, err := f.store.Configs().Upsert(context.Background(), &domain.ScheduleConfig{
					DoctorID:                ptr.Ptr(doctorD1),
					SlotDurationMinutes:     30,
					SlotCapacity:            1,
					MinBookingNoticeMinutes: 60 * 24 * 30,
				})
				require.NoError(t, err)
				return &Request{Actor: patient(101), DoctorID: doctorD1, PatientID: 101, SlotID: f.slotS1}
			},
			wantReason: domain.ReasonTooLate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 1, time.Second)

			_, err := f.uc.Execute(context.Background(), tt.prepare(f))
			require.ErrorIs(t, err, ErrInvalidSlot)

			var rejected *RejectionError
			require.True(t, errors.As(err, &rejected))
			assert.Equal(t, tt.wantReason, rejected.Reason)

			records := f.store.Records()
			require.Len(t, records, 1, "invalid attempts are audited")
			assert.Equal(t, domain.OutcomeRejectedInvalid, records[0].Outcome)
			assert.Equal(t, tt.wantReason, records[0].ReasonCode)
			assert.Equal(t, 0, f.bookedCount(t))
		})
	}
}

func TestExecute_RefusedWithoutRecord(t *testing.T) {
	tests := []struct {
		name    string
		req     func(f *fixture) *Request
		wantErr error
	}{
		{
			name: "patient books for someone else",
			req: func(f *fixture) *Request {
				return &Request{Actor: patient(101), DoctorID: doctorD1, PatientID: 102, SlotID: f.slotS1}
			},
			wantErr: ErrForbidden,
		},
		{
			name: "doctor cannot book",
			req: func(f *fixture) *Request {
				return &Request{Actor: domain.Actor{ParticipantID: doctorD1, Role: domain.RoleDoctor}, DoctorID: doctorD1, PatientID: 102, SlotID: f.slotS1}
			},
			wantErr: ErrForbidden,
		},
		{
			name: "non positive slot",
			req: func(f *fixture) *Request {
				return &Request{Actor: patient(101), DoctorID: doctorD1, PatientID: 101, SlotID: 0}
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "bad email",
			req: func(f *fixture) *Request {
				return &Request{Actor: patient(101), DoctorID: doctorD1, PatientID: 101, SlotID: f.slotS1, PatientEmail: ptr.Ptr("not-an-email")}
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "directory down",
			req: func(f *fixture) *Request {
				f.directory.err = fmt.Errorf("%w: connection refused", doctorservice.ErrUnavailable)
				return &Request{Actor: patient(101), DoctorID: doctorD1, PatientID: 101, SlotID: f.slotS1}
			},
			wantErr: ErrDirectoryUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 1, time.Second)

			_, err := f.uc.Execute(context.Background(), tt.req(f))
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.store.Records())
			assert.Equal(t, 0, f.bookedCount(t))
		})
	}
}

func TestExecute_AdminBooksForPatient(t *testing.T) {
	f := newFixture(t, 1, time.Second)

	resp, err := f.uc.Execute(context.Background(), &Request{
		Actor:     domain.Actor{ParticipantID: 1, Role: domain.RoleAdmin},
		DoctorID:  doctorD1,
		PatientID: 101,
		SlotID:    f.slotS1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(101), resp.PatientID)

	records := f.store.Records()
	require.Len(t, records, 1)
	assert.Equal(t, domain.RoleAdmin, records[0].ActorRole)
}

func TestExecute_AppendFailureRollsBackReservation(t *testing.T) {
	f := newFixture(t, 1, time.Second)
	f.store.AppendHook = func(context.Context, *domain.BookingRecord) error {
		return errors.New("connection reset by peer")
	}

	_, err := f.book(101)
	require.ErrorIs(t, err, ErrPersistence)
	assert.Equal(t, 0, f.bookedCount(t), "reservation is released with the failed append")
	assert.Empty(t, f.store.Records())

	f.store.AppendHook = nil
	resp, err := f.book(101)
	require.NoError(t, err, "retry with the same key succeeds")
	assert.Equal(t, domain.StatusConfirmed, resp.Status)
	assert.Equal(t, 1, f.bookedCount(t))
}

func TestExecute_TimeoutIsPersistenceError(t *testing.T) {
	f := newFixture(t, 1, 50*time.Millisecond)
	f.store.AppendHook = func(ctx context.Context, _ *domain.BookingRecord) error {
		<-ctx.Done()
		return ctx.Err()
	}

	_, err := f.book(101)
	require.ErrorIs(t, err, ErrPersistence)
	assert.Contains(t, err.Error(), "timed out")
	assert.Equal(t, 0, f.bookedCount(t))
	assert.Empty(t, f.store.Records())
}
