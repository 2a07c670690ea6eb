package ledger

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/MediLog-SchedulingService/internal/domain"
	"github.com/m04kA/MediLog-SchedulingService/pkg/ptr"
)

func TestBuildRecordsQuery(t *testing.T) {
	bookingID := uuid.MustParse("7f1b2c3d-0000-4000-8000-000000000001")

	tests := []struct {
		name     string
		filter   domain.RecordsFilter
		wantSQL  string
		wantArgs []interface{}
	}{
		{
			name:    "no filter",
			filter:  domain.RecordsFilter{},
			wantSQL: "FROM booking_records ORDER BY requested_at ASC, seq ASC",
		},
		{
			name:     "patient",
			filter:   domain.RecordsFilter{PatientID: ptr.Ptr(int64(5))},
			wantSQL:  "FROM booking_records WHERE patient_id = $1 ORDER BY requested_at ASC, seq ASC",
			wantArgs: []interface{}{int64(5)},
		},
		{
			name: "doctor slot booking after seq",
			filter: domain.RecordsFilter{
				DoctorID:  ptr.Ptr(int64(1)),
				SlotID:    ptr.Ptr(int64(9)),
				BookingID: &bookingID,
				AfterSeq:  42,
			},
			wantSQL: "FROM booking_records WHERE doctor_id = $1 AND slot_id = $2 AND booking_id = $3 AND seq > $4 " +
				"ORDER BY requested_at ASC, seq ASC",
			wantArgs: []interface{}{int64(1), int64(9), bookingID, int64(42)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := buildRecordsQuery(tt.filter).ToSql()
			require.NoError(t, err)
			assert.Contains(t, sql, tt.wantSQL)
			if len(tt.wantArgs) == 0 {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.wantArgs, args)
			}
		})
	}
}

func TestAppend_RejectsInvalidRecord(t *testing.T) {
	repo := NewRepository(nil)

	_, err := repo.Append(context.Background(), &domain.BookingRecord{Outcome: "APPROVED"})
	assert.ErrorIs(t, err, ErrInvalidRecord)

	_, err = repo.Append(context.Background(), &domain.BookingRecord{Outcome: domain.OutcomeConfirmed})
	assert.ErrorIs(t, err, ErrInvalidRecord)
}
