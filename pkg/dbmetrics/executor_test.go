package dbmetrics

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubTx struct {
	DBExecutor
}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

type stubDB struct {
	DBExecutor
}

func (stubDB) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}

func TestGetExecutor(t *testing.T) {
	db := stubDB{}
	ctx := context.Background()

	assert.False(t, IsInTransaction(ctx))
	assert.Equal(t, DBExecutor(db), GetExecutor(ctx, db))

	tx := stubTx{}
	txCtx := WithTx(ctx, tx)

	assert.True(t, IsInTransaction(txCtx))
	assert.Equal(t, DBExecutor(tx), GetExecutor(txCtx, db))
}

func TestGetTx_NilTransaction(t *testing.T) {
	ctx := WithTx(context.Background(), nil)
	_, ok := GetTx(ctx)
	assert.False(t, ok)
}

func TestIsReadOnly(t *testing.T) {
	ctx := context.Background()
	assert.False(t, IsReadOnly(WithReadOnly(ctx)), "marker without a transaction")

	txCtx := WithTx(ctx, stubTx{})
	assert.False(t, IsReadOnly(txCtx))
	assert.True(t, IsReadOnly(WithReadOnly(txCtx)))
}
