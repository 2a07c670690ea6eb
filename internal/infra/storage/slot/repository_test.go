package slot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReserveQuery(t *testing.T) {
	sql, args, err := buildReserveQuery(7).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "UPDATE slots SET booked_count = booked_count + 1, updated_at = NOW()")
	assert.Contains(t, sql, "active = $")
	assert.Contains(t, sql, "id = $")
	assert.Contains(t, sql, "booked_count < capacity")
	assert.ElementsMatch(t, []interface{}{true, int64(7)}, args)
}

func TestBuildGetByIDQuery(t *testing.T) {
	tests := []struct {
		name     string
		lock     bool
		wantLock bool
	}{
		{name: "write transaction locks the row", lock: true, wantLock: true},
		{name: "plain read", lock: false, wantLock: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := buildGetByIDQuery(3, tt.lock).ToSql()
			require.NoError(t, err)

			assert.Contains(t, sql, "FROM slots WHERE id = $1")
			assert.Equal(t, []interface{}{int64(3)}, args)
			if tt.wantLock {
				assert.Contains(t, sql, "FOR UPDATE")
			} else {
				assert.NotContains(t, sql, "FOR UPDATE")
			}
		})
	}
}
