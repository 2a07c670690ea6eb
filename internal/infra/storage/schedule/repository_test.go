package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/MediLog-SchedulingService/pkg/ptr"
)

func TestBuildConfigQuery(t *testing.T) {
	sql, args, err := buildConfigQuery(nil).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "FROM doctor_schedule_config WHERE doctor_id IS NULL")
	assert.Empty(t, args)

	sql, args, err = buildConfigQuery(ptr.Ptr(int64(4))).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "FROM doctor_schedule_config WHERE doctor_id = $1")
	assert.Equal(t, []interface{}{int64(4)}, args)
}

func TestConflictTarget(t *testing.T) {
	assert.Equal(t, "((doctor_id IS NULL)) WHERE doctor_id IS NULL", conflictTarget(nil))
	assert.Equal(t, "(doctor_id) WHERE doctor_id IS NOT NULL", conflictTarget(ptr.Ptr(int64(1))))
}
