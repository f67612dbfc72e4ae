package query

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
)

type Config struct {
	AvailabilityTTL time.Duration
	WeekViewTTL     time.Duration
	CourtsTTL       time.Duration
}

// Service answers the read side: availability, calendar views, court
// catalogue, series payment status. Reads are unlocked and may be stale by
// the time a write lands; writers re-check inside their own transaction.
type Service struct {
	store *postgresrepo.Store
	cache *redisrepo.Cache
	clock schedule.Clock
	cfg   Config
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache, clock schedule.Clock, cfg Config) *Service {
	if cfg.AvailabilityTTL <= 0 {
		cfg.AvailabilityTTL = 15 * time.Second
	}
	if cfg.WeekViewTTL <= 0 {
		cfg.WeekViewTTL = 15 * time.Second
	}
	if cfg.CourtsTTL <= 0 {
		cfg.CourtsTTL = 10 * time.Minute
	}

	return &Service{
		store: store,
		cache: cache,
		clock: clock,
		cfg:   cfg,
	}
}

// Courts returns the court catalogue, cached.
func (s *Service) Courts(ctx context.Context) ([]domain.Court, error) {
	const op = "service.query.Courts"

	courts, err := redisrepo.GetOrSetJSON(ctx, s.cache, redisx.KeyCourts(), s.cfg.CourtsTTL,
		func(ctx context.Context) ([]domain.Court, error) {
			return s.store.Courts().List(ctx)
		})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return courts, nil
}

// Availability computes free and booked ticks for a court and window, or the
// block event owning it. Cached under the court's schedule generation.
//
// Returns:
//   - error: query.ErrCourtNotFound for an unknown court.
func (s *Service) Availability(
	ctx context.Context,
	courtID int64,
	from, to time.Time,
) (*schedule.Availability, error) {
	const op = "service.query.Availability"

	court, err := s.store.Courts().Get(ctx, courtID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrCourtNotFound)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	gen, err := s.cache.CourtGen(ctx, courtID)
	if err != nil {
		gen = 0
	}

	key := redisx.KeyAvailability(courtID, gen, from.Unix(), to.Unix())

	avail, err := redisrepo.GetOrSetJSON(ctx, s.cache, key, s.cfg.AvailabilityTTL,
		func(ctx context.Context) (schedule.Availability, error) {
			return s.computeAvailability(ctx, court, from, to)
		})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &avail, nil
}

func (s *Service) computeAvailability(
	ctx context.Context,
	court *domain.Court,
	from, to time.Time,
) (schedule.Availability, error) {
	blocks, err := s.store.Blocks().ListOverlappingCourt(ctx, court.ID, from, to)
	if err != nil {
		return schedule.Availability{}, err
	}

	reservations, err := s.store.Reservations().ListForCourtWindow(ctx, court.ID, from, to)
	if err != nil {
		return schedule.Availability{}, err
	}

	busy := schedule.BusyIntervals(reservations, from, to)

	return schedule.ComputeAvailability(*court, from, to, busy, blocks, s.clock.Now()), nil
}

// WeekView aggregates reservations, derived occurrences, and block events
// into per-day buckets. Cached under the facility-wide calendar generation.
func (s *Service) WeekView(ctx context.Context, from, to time.Time) ([]schedule.DayBucket, error) {
	const op = "service.query.WeekView"

	gen, err := s.cache.CalendarGen(ctx)
	if err != nil {
		gen = 0
	}

	key := redisx.KeyWeekView(gen, from.Unix(), to.Unix())

	days, err := redisrepo.GetOrSetJSON(ctx, s.cache, key, s.cfg.WeekViewTTL,
		func(ctx context.Context) ([]schedule.DayBucket, error) {
			courts, err := s.store.Courts().List(ctx)
			if err != nil {
				return nil, err
			}

			reservations, err := s.store.Reservations().ListForWindow(ctx, from, to)
			if err != nil {
				return nil, err
			}

			blocks, err := s.store.Blocks().ListOverlapping(ctx, from, to)
			if err != nil {
				return nil, err
			}

			return schedule.WeekView(from, to, courts, reservations, blocks), nil
		})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return days, nil
}

// SeriesPayments derives paid and remaining session counts for a recurring
// series from its occurrence count and paid-sessions field.
//
// Returns:
//   - error: query.ErrReservationNotFound for an unknown reservation.
//   - error: query.ErrNotRecurring for a single booking.
func (s *Service) SeriesPayments(ctx context.Context, id uuid.UUID) (*domain.SeriesPayments, error) {
	const op = "service.query.SeriesPayments"

	res, err := s.store.Reservations().Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrReservationNotFound)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if !res.IsRecurring || res.RecurrenceEnd == nil {
		return nil, fmt.Errorf("%s:%w", op, ErrNotRecurring)
	}

	total := schedule.TotalSessions(res.Start, *res.RecurrenceEnd)
	paid := schedule.ClampPaidSessions(res.PaidSessions, total)

	out := &domain.SeriesPayments{
		ReservationID:   res.ID,
		TotalSessions:   total,
		PaidSessions:    paid,
		RemainingUnpaid: schedule.RemainingUnpaid(total, paid),
	}

	if paid < total {
		next := schedule.OccurrenceStart(res.Start, paid)
		out.NextUnpaidDate = &next
	}

	return out, nil
}

// Reservation fetches one reservation by ID.
func (s *Service) Reservation(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	const op = "service.query.Reservation"

	res, err := s.store.Reservations().Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrReservationNotFound)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return res, nil
}
