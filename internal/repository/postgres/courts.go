package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/canchaclub/cancha-go/internal/domain"
)

type CourtRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *CourtRepo) With(db DB) *CourtRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *CourtRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// Create inserts a court and returns its ID.
//
// Returns:
//   - int64: the created court ID.
//   - error: repository.ErrConflict if a court with the same name exists.
func (r *CourtRepo) Create(ctx context.Context, name string, courtType domain.CourtType) (int64, error) {
	const op = "postgres.CourtRepo.Create"

	db := r.handle()

	var id int64
	err := db.QueryRow(ctx,
		`INSERT INTO courts(name, type)
		 VALUES ($1, $2)
		 RETURNING id`,
		name, string(courtType),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return id, nil
}

// Get retrieves a court by its ID.
//
// Returns:
//   - *domain.Court: the court when found.
//   - error: repository.ErrNotFound if the court is not found.
func (r *CourtRepo) Get(ctx context.Context, id int64) (*domain.Court, error) {
	const op = "postgres.CourtRepo.Get"

	db := r.handle()

	var c domain.Court
	var courtType string
	err := db.QueryRow(ctx,
		`SELECT id, name, type
		 FROM courts WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &courtType)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	c.Type = domain.CourtType(courtType)

	return &c, nil
}

// List returns every court, ordered by name.
func (r *CourtRepo) List(ctx context.Context) ([]domain.Court, error) {
	const op = "postgres.CourtRepo.List"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, name, type
		 FROM courts
		 ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	var out []domain.Court
	for rows.Next() {
		var c domain.Court
		var courtType string
		if err := rows.Scan(&c.ID, &c.Name, &courtType); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}
		c.Type = domain.CourtType(courtType)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}
