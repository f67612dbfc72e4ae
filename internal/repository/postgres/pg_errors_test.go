package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/canchaclub/cancha-go/internal/repository"
)

func TestTranslateDBErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", pgx.ErrNoRows, repository.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), repository.ErrNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, repository.ErrConflict},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, repository.ErrConflict},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, repository.ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, translateDBErr(tt.err))
		})
	}

	// Unknown errors pass through untouched.
	unknown := errors.New("connection reset")
	assert.Equal(t, unknown, translateDBErr(unknown))

	otherPg := &pgconn.PgError{Code: "23503"}
	assert.Equal(t, error(otherPg), translateDBErr(otherPg))
}
