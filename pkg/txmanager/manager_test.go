package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBooking/pkg/dbmetrics"
)

type fakeTx struct {
	execs      []string
	committed  bool
	rolledBack bool
	commitErr  error
}

func (f *fakeTx) ExecContext(_ context.Context, query string, _ ...interface{}) (sql.Result, error) {
	f.execs = append(f.execs, query)
	return nil, nil
}

func (f *fakeTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, errors.New("not supported")
}

func (f *fakeTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (f *fakeTx) Commit() error {
	f.committed = true
	return f.commitErr
}

func (f *fakeTx) Rollback() error {
	f.rolledBack = true
	return nil
}

type fakeDB struct {
	tx    *fakeTx
	opts  *sql.TxOptions
	begun int
}

func (f *fakeDB) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	f.begun++
	f.opts = opts
	return f.tx, nil
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "serialization", err: &pq.Error{Code: "40001"}, want: true},
		{name: "deadlock", err: fmt.Errorf("lock room: %w", &pq.Error{Code: "40P01"}), want: true},
		{name: "lock timeout", err: &pq.Error{Code: "55P03"}, want: true},
		{name: "busy", err: ErrBusy, want: true},
		{name: "unique violation", err: &pq.Error{Code: "23505"}},
		{name: "plain", err: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil))

	pqCause := &pq.Error{Code: "55P03"}
	err := mapError(fmt.Errorf("lock doctor: %w", pqCause))
	require.ErrorIs(t, err, ErrBusy)
	var pqErr *pq.Error
	require.ErrorAs(t, err, &pqErr)
	assert.Equal(t, pqCause, pqErr)

	plain := errors.New("boom")
	assert.Equal(t, plain, mapError(plain))
}

func TestDoSerializable(t *testing.T) {
	ctx := context.Background()

	t.Run("commit with lock timeout", func(t *testing.T) {
		db := &fakeDB{tx: &fakeTx{}}
		m := NewTransactionManager(db, WithLockTimeout(1500*time.Millisecond))

		var inTx bool
		err := m.DoSerializable(ctx, func(ctx context.Context) error {
			inTx = dbmetrics.IsInTransaction(ctx)
			// Вложенный вызов переиспользует транзакцию
			return m.DoSerializable(ctx, func(context.Context) error { return nil })
		})
		require.NoError(t, err)
		assert.True(t, inTx)
		assert.Equal(t, 1, db.begun)
		assert.Equal(t, sql.LevelSerializable, db.opts.Isolation)
		assert.Equal(t, []string{"SET LOCAL lock_timeout = '1500ms'"}, db.tx.execs)
		assert.True(t, db.tx.committed)
		assert.False(t, db.tx.rolledBack)
	})

	t.Run("rollback maps conflict to busy", func(t *testing.T) {
		db := &fakeDB{tx: &fakeTx{}}
		m := NewTransactionManager(db)

		err := m.DoSerializable(ctx, func(context.Context) error {
			return &pq.Error{Code: "40001"}
		})
		require.ErrorIs(t, err, ErrBusy)
		assert.True(t, db.tx.rolledBack)
		assert.False(t, db.tx.committed)
		assert.Empty(t, db.tx.execs)
	})

	t.Run("commit failure", func(t *testing.T) {
		db := &fakeDB{tx: &fakeTx{commitErr: &pq.Error{Code: "40001"}}}
		m := NewTransactionManager(db)

		err := m.DoSerializable(ctx, func(context.Context) error { return nil })
		require.ErrorIs(t, err, ErrCommitTx)
		assert.ErrorIs(t, err, ErrBusy)
	})

	t.Run("panic rolls back", func(t *testing.T) {
		db := &fakeDB{tx: &fakeTx{}}
		m := NewTransactionManager(db)

		assert.Panics(t, func() {
			_ = m.DoSerializable(ctx, func(context.Context) error { panic("boom") })
		})
		assert.True(t, db.tx.rolledBack)
	})
}
