package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-ClinicBooking/pkg/dbmetrics"
)

var (
	// ErrBusy блокировка не получена за отведенное время или транзакция не сериализовалась; можно повторить
	ErrBusy = errors.New("resource is busy, retry later")

	// ErrBeginTx возвращается при ошибке открытия транзакции
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommitTx возвращается при ошибке фиксации транзакции
	ErrCommitTx = errors.New("txmanager: failed to commit transaction")
)

// Коды PostgreSQL, после которых операцию можно повторить
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

// TxBeginner источник транзакций (*dbmetrics.DB)
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// Option настройка менеджера
type Option func(*TransactionManager)

// WithLockTimeout ограничивает ожидание строковых блокировок внутри транзакции
func WithLockTimeout(d time.Duration) Option {
	return func(m *TransactionManager) {
		m.lockTimeout = d
	}
}

// TransactionManager выполняет функцию в транзакции, передавая её через контекст
type TransactionManager struct {
	db          TxBeginner
	lockTimeout time.Duration
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db TxBeginner, opts ...Option) *TransactionManager {
	m := &TransactionManager{db: db}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// DoSerializable выполняет fn в транзакции SERIALIZABLE
// Если контекст уже несет транзакцию, fn выполняется в ней
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.do(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

func (m *TransactionManager) do(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return mapError(fmt.Errorf("%w: %w", ErrBeginTx, err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if m.lockTimeout > 0 {
		// SET LOCAL не принимает плейсхолдеры
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", m.lockTimeout.Milliseconds())
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return mapError(fmt.Errorf("%w: set lock_timeout: %w", ErrBeginTx, err))
		}
	}

	if err := fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return mapError(err)
	}

	if err := tx.Commit(); err != nil {
		return mapError(fmt.Errorf("%w: %w", ErrCommitTx, err))
	}

	return nil
}

// mapError переводит ошибки конкуренции PostgreSQL в ErrBusy, исходная ошибка остается в цепочке
func mapError(err error) error {
	if err == nil || errors.Is(err, ErrBusy) {
		return err
	}
	if IsRetryable(err) {
		return fmt.Errorf("%w: %w", ErrBusy, err)
	}
	return err
}

// IsRetryable true для ошибок сериализации, взаимоблокировки и таймаута блокировки
func IsRetryable(err error) bool {
	if errors.Is(err, ErrBusy) {
		return true
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch string(pqErr.Code) {
	case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
		return true
	default:
		return false
	}
}
