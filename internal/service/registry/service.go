package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/canchaclub/cancha-go/internal/domain"
	"github.com/canchaclub/cancha-go/internal/repository"
	postgresrepo "github.com/canchaclub/cancha-go/internal/repository/postgres"
	redisrepo "github.com/canchaclub/cancha-go/internal/repository/redis"
	"github.com/canchaclub/cancha-go/internal/uow"
)

// Service owns the static court catalogue. Courts are immutable once
// created: type fixes slot granularity and session duration forever.
type Service struct {
	store *postgresrepo.Store
	cache *redisrepo.Cache
	uow   *uow.UoW
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache) *Service {
	return &Service{
		store: store,
		cache: cache,
		uow:   uow.NewUoW(store),
	}
}

// CreateCourt registers a new court.
//
// Returns:
//   - error: registry.ErrInvalidCourt on a bad name or type.
//   - error: registry.ErrCourtExists when the name is taken.
func (s *Service) CreateCourt(ctx context.Context, name string, courtType domain.CourtType) (*domain.Court, error) {
	const op = "service.registry.CreateCourt"

	if name == "" {
		return nil, fmt.Errorf("%s:%w: name is required", op, ErrInvalidCourt)
	}
	if !courtType.Valid() {
		return nil, fmt.Errorf("%s:%w: unknown type %q", op, ErrInvalidCourt, courtType)
	}

	court := &domain.Court{Name: name, Type: courtType}

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		id, err := s.store.Courts().With(tx).Create(ctx, name, courtType)
		if err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%s:%w", op, ErrCourtExists)
			}
			return fmt.Errorf("%s:%w", op, err)
		}

		court.ID = id

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateCourts(ctx)
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return court, nil
}

// GetCourt fetches a court by ID.
//
// Returns:
//   - error: registry.ErrCourtNotFound for an unknown court.
func (s *Service) GetCourt(ctx context.Context, id int64) (*domain.Court, error) {
	const op = "service.registry.GetCourt"

	court, err := s.store.Courts().Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrCourtNotFound)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return court, nil
}
