package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/canchaclub/cancha-go/internal/repository"
)

func translateDBErr(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}

	var pge *pgconn.PgError
	if errors.As(err, &pge) {
		switch pge.Code {
		// unique_violation: two requests raced past validation; the unique
		// constraint on (court_id, start_time) is the authoritative guard.
		case "23505":
			return repository.ErrConflict
		// serialization_failure / deadlock_detected: the transaction lost a
		// race under serializable isolation. The core never retries; callers
		// see the same conflict as a lost unique-constraint race.
		case "40001", "40P01":
			return repository.ErrConflict
		}
	}

	return err
}
