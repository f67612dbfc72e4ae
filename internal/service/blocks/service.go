package blocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/canchaclub/cancha-go/internal/domain"
	redisx "github.com/canchaclub/cancha-go/internal/redis"
	"github.com/canchaclub/cancha-go/internal/repository"
	postgresrepo "github.com/canchaclub/cancha-go/internal/repository/postgres"
	redisrepo "github.com/canchaclub/cancha-go/internal/repository/redis"
	"github.com/canchaclub/cancha-go/internal/schedule"
	"github.com/canchaclub/cancha-go/internal/uow"
)

// Service manages facility-blocking events: tournaments, maintenance,
// private functions. An active block overrides per-slot availability on its
// courts but never retroactively invalidates reservations that predate it.
type Service struct {
	store  *postgresrepo.Store
	cache  *redisrepo.Cache
	pubsub *redisx.SchedulePubSub
	uow    *uow.UoW
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache, pubsub *redisx.SchedulePubSub) *Service {
	return &Service{
		store:  store,
		cache:  cache,
		pubsub: pubsub,
		uow:    uow.NewUoW(store),
	}
}

type CreateRequest struct {
	Name     string
	Start    time.Time
	End      time.Time
	CourtIDs []int64
}

// Create registers a block event. Blocks that would override reservations
// already paid for in the interval are rejected rather than silently
// shadowing them; the error names the first affected booking.
//
// Returns:
//   - error: blocks.ErrValidation on malformed input.
//   - error: blocks.ErrCourtNotFound for an unknown court.
//   - error: blocks.ErrPaidReservations when paid bookings sit in the interval.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.BlockEvent, error) {
	const op = "service.blocks.Create"

	if err := validate(req.Name, req.Start, req.End, req.CourtIDs); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	block := &domain.BlockEvent{
		ID:       uuid.New(),
		Name:     req.Name,
		CourtIDs: req.CourtIDs,
		Start:    req.Start,
		End:      req.End,
	}

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		for _, courtID := range req.CourtIDs {
			if _, err := s.store.Courts().With(tx).Get(ctx, courtID); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("%s:%w: court %d", op, ErrCourtNotFound, courtID)
				}
				return fmt.Errorf("%s:%w", op, err)
			}
		}

		if err := s.checkPaid(ctx, tx, req.CourtIDs, req.Start, req.End); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		if err := s.store.Blocks().With(tx).Create(ctx, block); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		after(func(ctx context.Context) {
			_ = s.cache.BumpSchedule(ctx, req.CourtIDs...)
			_ = s.pubsub.PublishScheduleChanged(ctx, req.CourtIDs...)
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return block, nil
}

// Update rewrites a block event, applying the same validation as Create.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req CreateRequest) (*domain.BlockEvent, error) {
	const op = "service.blocks.Update"

	if err := validate(req.Name, req.Start, req.End, req.CourtIDs); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	var updated *domain.BlockEvent

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		prev, err := s.store.Blocks().With(tx).Get(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrNotFound)
			}
			return fmt.Errorf("%s:%w", op, err)
		}

		for _, courtID := range req.CourtIDs {
			if _, err := s.store.Courts().With(tx).Get(ctx, courtID); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("%s:%w: court %d", op, ErrCourtNotFound, courtID)
				}
				return fmt.Errorf("%s:%w", op, err)
			}
		}

		if err := s.checkPaid(ctx, tx, req.CourtIDs, req.Start, req.End); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		block := &domain.BlockEvent{
			ID:        id,
			Name:      req.Name,
			CourtIDs:  req.CourtIDs,
			Start:     req.Start,
			End:       req.End,
			CreatedAt: prev.CreatedAt,
		}

		if err := s.store.Blocks().With(tx).Update(ctx, block); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		updated = block

		// Both the old and the new court sets see a schedule change.
		touched := append(append([]int64{}, prev.CourtIDs...), req.CourtIDs...)
		after(func(ctx context.Context) {
			_ = s.cache.BumpSchedule(ctx, touched...)
			_ = s.pubsub.PublishScheduleChanged(ctx, touched...)
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes a block, unblocking its courts for subsequent queries
// immediately.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "service.blocks.Delete"

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		block, err := s.store.Blocks().With(tx).Get(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrNotFound)
			}
			return fmt.Errorf("%s:%w", op, err)
		}

		if err := s.store.Blocks().With(tx).Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrNotFound)
			}
			return fmt.Errorf("%s:%w", op, err)
		}

		after(func(ctx context.Context) {
			_ = s.cache.BumpSchedule(ctx, block.CourtIDs...)
			_ = s.pubsub.PublishScheduleChanged(ctx, block.CourtIDs...)
		})

		return nil
	})
}

func validate(name string, start, end time.Time, courtIDs []int64) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if len(courtIDs) == 0 {
		return fmt.Errorf("%w: at least one court is required", ErrValidation)
	}
	if !end.After(start) {
		return fmt.Errorf("%w: end must be after start", ErrValidation)
	}
	return nil
}

// checkPaid rejects the block when a paid booking or paid occurrence sits in
// the blocked interval on one of its courts.
func (s *Service) checkPaid(
	ctx context.Context,
	tx postgresrepo.DB,
	courtIDs []int64,
	start, end time.Time,
) error {
	reservations, err := s.store.Reservations().With(tx).ListForCourtsWindow(ctx, courtIDs, start, end)
	if err != nil {
		return err
	}

	window := schedule.Interval{Start: start, End: end}

	for i := range reservations {
		r := &reservations[i]

		if series, ok := schedule.SeriesOf(r); ok {
			for _, occ := range schedule.Expand(series, start.Add(-2*time.Hour), end) {
				if occ.Paid && window.Overlaps(schedule.Interval{Start: occ.Start, End: occ.End}) {
					return fmt.Errorf("%w: %s session on %s", ErrPaidReservations,
						r.ContactName, occ.Start.Format("2006-01-02 15:04"))
				}
			}
			continue
		}

		if r.PaymentMethod != domain.PaymentPending &&
			window.Overlaps(schedule.Interval{Start: r.Start, End: r.End}) {
			return fmt.Errorf("%w: %s on %s", ErrPaidReservations,
				r.ContactName, r.Start.Format("2006-01-02 15:04"))
		}
	}

	return nil
}
