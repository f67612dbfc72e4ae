package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/canchaclub/cancha-go/internal/domain"
)

type BlockRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *BlockRepo) With(db DB) *BlockRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *BlockRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// Create inserts a block event.
func (r *BlockRepo) Create(ctx context.Context, b *domain.BlockEvent) error {
	const op = "postgres.BlockRepo.Create"

	db := r.handle()

	err := db.QueryRow(ctx,
		`INSERT INTO block_events(id, name, court_ids, start_time, end_time)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		b.ID, b.Name, b.CourtIDs, b.Start, b.End,
	).Scan(&b.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return nil
}

// Get retrieves a block event by its ID.
//
// Returns:
//   - error: repository.ErrNotFound if the block is not found.
func (r *BlockRepo) Get(ctx context.Context, id uuid.UUID) (*domain.BlockEvent, error) {
	const op = "postgres.BlockRepo.Get"

	db := r.handle()

	var b domain.BlockEvent
	err := db.QueryRow(ctx,
		`SELECT id, name, court_ids, start_time, end_time, created_at
		 FROM block_events WHERE id = $1`,
		id,
	).Scan(&b.ID, &b.Name, &b.CourtIDs, &b.Start, &b.End, &b.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return &b, nil
}

// Update rewrites a block event.
//
// Returns:
//   - error: repository.ErrNotFound if the block is not found.
func (r *BlockRepo) Update(ctx context.Context, b *domain.BlockEvent) error {
	const op = "postgres.BlockRepo.Update"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE block_events
		 SET name = $2, court_ids = $3, start_time = $4, end_time = $5
		 WHERE id = $1`,
		b.ID, b.Name, b.CourtIDs, b.Start, b.End,
	)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, translateDBErr(pgx.ErrNoRows))
	}

	return nil
}

// Delete removes a block event, restoring ordinary slot computation for its
// courts as of the next query.
//
// Returns:
//   - error: repository.ErrNotFound if the block is not found.
func (r *BlockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "postgres.BlockRepo.Delete"

	db := r.handle()

	tag, err := db.Exec(ctx, `DELETE FROM block_events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, translateDBErr(pgx.ErrNoRows))
	}

	return nil
}

// ListOverlappingCourt returns blocks covering the court that overlap the
// window.
func (r *BlockRepo) ListOverlappingCourt(
	ctx context.Context,
	courtID int64,
	from, to time.Time,
) ([]domain.BlockEvent, error) {
	const op = "postgres.BlockRepo.ListOverlappingCourt"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, name, court_ids, start_time, end_time, created_at
		 FROM block_events
		 WHERE $1 = ANY(court_ids) AND start_time < $3 AND end_time > $2
		 ORDER BY start_time`,
		courtID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return collectBlocks(op, rows)
}

// ListOverlapping returns every block overlapping the window, any court.
func (r *BlockRepo) ListOverlapping(ctx context.Context, from, to time.Time) ([]domain.BlockEvent, error) {
	const op = "postgres.BlockRepo.ListOverlapping"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, name, court_ids, start_time, end_time, created_at
		 FROM block_events
		 WHERE start_time < $2 AND end_time > $1
		 ORDER BY start_time`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return collectBlocks(op, rows)
}

func collectBlocks(op string, rows pgx.Rows) ([]domain.BlockEvent, error) {
	defer rows.Close()

	var out []domain.BlockEvent
	for rows.Next() {
		var b domain.BlockEvent
		if err := rows.Scan(&b.ID, &b.Name, &b.CourtIDs, &b.Start, &b.End, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}
