package uow

import (
	"context"

	"github.com/jackc/pgx/v5"

	postgres "github.com/canchaclub/cancha-go/internal/repository/postgres"
)

// AfterCommit runs once the surrounding transaction has committed. Used for
// cache bumps, schedule-changed broadcasts, and invoicing records, which
// must never happen for a rolled-back booking.
type AfterCommit func(ctx context.Context)

// UoW wraps a booking mutation's read-validate-write sequence into a single
// atomic unit against the store.
type UoW struct {
	store *postgres.Store
}

func NewUoW(store *postgres.Store) *UoW {
	return &UoW{store: store}
}

// Do runs fn inside a serializable transaction, then fires the collected
// after-commit hooks.
func (u *UoW) Do(
	ctx context.Context,
	fn func(ctx context.Context, tx postgres.DB, after func(AfterCommit)) error,
) error {
	return u.DoWithOpts(ctx, nil, fn)
}

func (u *UoW) DoWithOpts(
	ctx context.Context,
	opts *pgx.TxOptions,
	fn func(ctx context.Context, tx postgres.DB, after func(AfterCommit)) error,
) error {
	var hooks []AfterCommit

	err := u.store.RunTx(ctx, opts, func(ctx context.Context, tx postgres.DB) error {
		return fn(ctx, tx, func(h AfterCommit) {
			hooks = append(hooks, h)
		})
	})
	if err != nil {
		return err
	}

	for _, h := range hooks {
		h(ctx)
	}

	return nil
}
