package postgres

import (
	"context"

	"github.com/Temutjin2k/ride-scheduler/pkg/trm"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Querier interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
}

// TxorDB returns the transaction carried by ctx, or db when there is none.
func TxorDB(ctx context.Context, db Querier) Querier {
	if tx, ok := trm.FromContext(ctx); ok {
		return tx
	}
	return db
}
