package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/canchaclub/cancha-go/internal/domain"
	"github.com/canchaclub/cancha-go/internal/invoicing"
	redisx "github.com/canchaclub/cancha-go/internal/redis"
	"github.com/canchaclub/cancha-go/internal/repository"
	postgresrepo "github.com/canchaclub/cancha-go/internal/repository/postgres"
	redisrepo "github.com/canchaclub/cancha-go/internal/repository/redis"
	"github.com/canchaclub/cancha-go/internal/schedule"
	"github.com/canchaclub/cancha-go/internal/uow"
)

type Service struct {
	store    *postgresrepo.Store
	cache    *redisrepo.Cache
	pubsub   *redisx.SchedulePubSub
	invoicer *invoicing.Client
	uow      *uow.UoW
}

func New(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisx.SchedulePubSub,
	invoicer *invoicing.Client,
) *Service {
	return &Service{
		store:    store,
		cache:    cache,
		pubsub:   pubsub,
		invoicer: invoicer,
		uow:      uow.NewUoW(store),
	}
}

type CreateRequest struct {
	CourtID       int64
	Start         time.Time
	End           time.Time
	ContactName   string
	ContactPhone  string
	PaymentMethod domain.PaymentMethod
	IsRecurring   bool
	RecurrenceEnd *time.Time
	PaidSessions  int
	PaymentNotes  string
}

// UpdateRequest carries the mutable fields of a reservation; nil means
// "leave unchanged". Court and recurrence shape are fixed at creation.
type UpdateRequest struct {
	ID            uuid.UUID
	Start         *time.Time
	End           *time.Time
	ContactName   *string
	ContactPhone  *string
	PaymentMethod *domain.PaymentMethod
	PaidSessions  *int
	PaymentNotes  *string
}

// Create validates and books a reservation or a weekly series. The free-slot
// check runs inside the same serializable transaction as the insert; the
// unique constraint on (court_id, start_time) settles races between requests
// that both passed the check.
//
// Returns:
//   - error: booking.ErrValidation / ErrGranularity on malformed input.
//   - error: booking.ErrCourtNotFound for an unknown court.
//   - error: booking.ErrEventConflict when a block event covers an occurrence.
//   - error: booking.ErrSlotUnavailable when any occurrence collides.
//   - error: booking.ErrConcurrencyConflict when a racing request won the slot.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.Reservation, error) {
	const op = "service.booking.Create"

	court, err := s.store.Courts().Get(ctx, req.CourtID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrCourtNotFound)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if req.PaymentMethod == "" {
		req.PaymentMethod = domain.PaymentPending
	}

	if err := validateContact(req.ContactName, req.ContactPhone); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}
	if err := validateNotes(req.PaymentNotes); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}
	if err := validatePaymentMethod(req.PaymentMethod); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}
	if err := validateTiming(court, req.Start, req.End); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}
	if err := validateRecurrence(req.IsRecurring, req.Start, req.RecurrenceEnd); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	paid := req.PaidSessions
	if req.IsRecurring {
		total := schedule.TotalSessions(req.Start, *req.RecurrenceEnd)
		paid = schedule.ClampPaidSessions(paid, total)
	} else if paid < 0 {
		paid = 0
	}

	res := &domain.Reservation{
		ID:            uuid.New(),
		CourtID:       court.ID,
		Start:         req.Start,
		End:           req.End,
		ContactName:   req.ContactName,
		ContactPhone:  req.ContactPhone,
		PaymentMethod: req.PaymentMethod,
		IsRecurring:   req.IsRecurring,
		RecurrenceEnd: req.RecurrenceEnd,
		PaidSessions:  paid,
		PaymentNotes:  req.PaymentNotes,
	}

	err = s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if err := s.checkFree(ctx, tx, court, res, uuid.Nil); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		if err := s.store.Reservations().With(tx).Create(ctx, res); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%s:%w", op, ErrConcurrencyConflict)
			}
			return fmt.Errorf("%s:%w", op, err)
		}

		after(func(ctx context.Context) {
			_ = s.cache.BumpSchedule(ctx, court.ID)
			_ = s.pubsub.PublishScheduleChanged(ctx, court.ID)
			s.invoicer.RecordBooking(ctx, res)
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

// Update edits a reservation. Validation runs against current server state
// inside the transaction, never against a client-supplied snapshot, and
// the reservation's own prior slot is excluded from the busy set.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*domain.Reservation, error) {
	const op = "service.booking.Update"

	var updated *domain.Reservation

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		res, err := s.store.Reservations().With(tx).Get(ctx, req.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrNotFound)
			}
			return fmt.Errorf("%s:%w", op, err)
		}

		court, err := s.store.Courts().With(tx).Get(ctx, res.CourtID)
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		timeChanged := applyUpdate(res, req)

		if err := validateContact(res.ContactName, res.ContactPhone); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}
		if err := validateNotes(res.PaymentNotes); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}
		if err := validatePaymentMethod(res.PaymentMethod); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}
		if err := validateTiming(court, res.Start, res.End); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}
		if err := validateRecurrence(res.IsRecurring, res.Start, res.RecurrenceEnd); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		if res.IsRecurring {
			total := schedule.TotalSessions(res.Start, *res.RecurrenceEnd)
			res.PaidSessions = schedule.ClampPaidSessions(res.PaidSessions, total)
		} else if res.PaidSessions < 0 {
			res.PaidSessions = 0
		}

		if timeChanged {
			if err := s.checkFree(ctx, tx, court, res, res.ID); err != nil {
				return fmt.Errorf("%s:%w", op, err)
			}
		}

		if err := s.store.Reservations().With(tx).Update(ctx, res); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%s:%w", op, ErrConcurrencyConflict)
			}
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrNotFound)
			}
			return fmt.Errorf("%s:%w", op, err)
		}

		updated = res

		after(func(ctx context.Context) {
			_ = s.cache.BumpSchedule(ctx, court.ID)
			_ = s.pubsub.PublishScheduleChanged(ctx, court.ID)
			s.invoicer.RecordUpdate(ctx, res)
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Cancel removes a reservation. Cancelling a series removes every future
// occurrence at once since none are persisted.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) error {
	const op = "service.booking.Cancel"

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		res, err := s.store.Reservations().With(tx).Get(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrNotFound)
			}
			return fmt.Errorf("%s:%w", op, err)
		}

		if err := s.store.Reservations().With(tx).Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrNotFound)
			}
			return fmt.Errorf("%s:%w", op, err)
		}

		after(func(ctx context.Context) {
			_ = s.cache.BumpSchedule(ctx, res.CourtID)
			_ = s.pubsub.PublishScheduleChanged(ctx, res.CourtID)
		})

		return nil
	})
}

// applyUpdate copies the set fields of req onto res and reports whether the
// reservation's time changed.
func applyUpdate(res *domain.Reservation, req UpdateRequest) bool {
	timeChanged := false

	if req.Start != nil && !req.Start.Equal(res.Start) {
		res.Start = *req.Start
		timeChanged = true
	}
	if req.End != nil && !req.End.Equal(res.End) {
		res.End = *req.End
		timeChanged = true
	}
	if req.ContactName != nil {
		res.ContactName = *req.ContactName
	}
	if req.ContactPhone != nil {
		res.ContactPhone = *req.ContactPhone
	}
	if req.PaymentMethod != nil {
		res.PaymentMethod = *req.PaymentMethod
	}
	if req.PaidSessions != nil {
		res.PaidSessions = *req.PaidSessions
	}
	if req.PaymentNotes != nil {
		res.PaymentNotes = *req.PaymentNotes
	}

	return timeChanged
}

// checkFree verifies every occurrence the candidate would put on the court,
// the whole series for recurring bookings, since week one being clear does
// not make later weeks clear. excludeID removes the candidate's own prior
// row from the busy set when editing.
func (s *Service) checkFree(
	ctx context.Context,
	tx postgresrepo.DB,
	court *domain.Court,
	candidate *domain.Reservation,
	excludeID uuid.UUID,
) error {
	candidates := candidateIntervals(candidate)
	if len(candidates) == 0 {
		return fmt.Errorf("%w: series produces no occurrences", ErrValidation)
	}

	horizonStart := candidates[0].Start
	horizonEnd := candidates[len(candidates)-1].End

	blocks, err := s.store.Blocks().With(tx).ListOverlappingCourt(ctx, court.ID, horizonStart, horizonEnd)
	if err != nil {
		return err
	}

	existing, err := s.store.Reservations().With(tx).ListForCourtWindow(ctx, court.ID, horizonStart, horizonEnd)
	if err != nil {
		return err
	}

	busy := schedule.BusyIntervals(existing, horizonStart, horizonEnd, candidate.ID, excludeID)

	if c := schedule.FirstConflict(candidates, blocks, busy); c != nil {
		if c.Block != nil {
			return fmt.Errorf("%w: %q blocks %s", ErrEventConflict, c.Block.Name, c.At.Format("2006-01-02 15:04"))
		}
		return fmt.Errorf("%w: %s is taken", ErrSlotUnavailable, c.At.Format("2006-01-02 15:04"))
	}

	return nil
}

func candidateIntervals(res *domain.Reservation) []schedule.Interval {
	if series, ok := schedule.SeriesOf(res); ok {
		occs := schedule.ExpandAll(series)
		out := make([]schedule.Interval, 0, len(occs))
		for _, occ := range occs {
			out = append(out, schedule.Interval{Start: occ.Start, End: occ.End})
		}
		return out
	}
	return []schedule.Interval{{Start: res.Start, End: res.End}}
}
