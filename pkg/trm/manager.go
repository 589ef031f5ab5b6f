package trm

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxManager runs fn inside a transaction. Repositories pick the transaction
// up from the context, so every write fn makes commits or rolls back together.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Manager implements TxManager on top of a pgx pool.
type Manager struct {
	db *pgxpool.Pool
}

// New returns a new Transaction Manager
func New(db *pgxpool.Pool) *Manager {
	return &Manager{db: db}
}

type ctxKeyTx struct{}
type ctxKeyTxOptions struct{}

// FromContext returns the transaction started by Do, if any.
func FromContext(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(ctxKeyTx{}).(pgx.Tx)
	return tx, ok
}

// WithOptionsCtx sets the options used when Do has to begin a new transaction.
func WithOptionsCtx(ctx context.Context, opt pgx.TxOptions) context.Context {
	return context.WithValue(ctx, ctxKeyTxOptions{}, opt)
}

// Do executes fn within a transaction. If ctx already carries a transaction,
// fn joins it and the outermost Do decides about commit and rollback.
// A panic in fn rolls the transaction back and is re-raised.
func (m *Manager) Do(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := FromContext(ctx); ok {
		return fn(ctx)
	}

	opts, _ := ctx.Value(ctxKeyTxOptions{}).(pgx.TxOptions)
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to start new transaction: %w", err)
	}
	txCtx := context.WithValue(ctx, ctxKeyTx{}, tx)

	defer func() {
		if p := recover(); p != nil {
			// rollback must not depend on a possibly cancelled ctx
			_ = tx.Rollback(context.WithoutCancel(ctx))
			panic(p)
		}

		if err != nil {
			if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				err = fmt.Errorf("failed to rollback tx: %v (original error: %w)", rbErr, err)
			}
			return
		}

		if commitErr := tx.Commit(ctx); commitErr != nil {
			err = fmt.Errorf("failed to commit tx: %w", commitErr)
		}
	}()

	return fn(txCtx)
}

// DoReadOnly executes fn within a read-only transaction.
func (m *Manager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx = WithOptionsCtx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	return m.Do(ctx, fn)
}
