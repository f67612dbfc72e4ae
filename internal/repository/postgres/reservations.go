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

type ReservationRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *ReservationRepo) With(db DB) *ReservationRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *ReservationRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const reservationColumns = `id, court_id, start_time, end_time, contact_name, contact_phone,
	payment_method, is_recurring, recurrence_end, paid_sessions, payment_notes, created_at`

// Create inserts a reservation row. The unique constraint on
// (court_id, start_time) is the authoritative double-booking guard: the
// in-process availability check is an optimization only.
//
// Returns:
//   - error: repository.ErrConflict when another request already took the slot.
func (r *ReservationRepo) Create(ctx context.Context, res *domain.Reservation) error {
	const op = "postgres.ReservationRepo.Create"

	db := r.handle()

	err := db.QueryRow(ctx,
		`INSERT INTO reservations(id, court_id, start_time, end_time, contact_name,
			contact_phone, payment_method, is_recurring, recurrence_end, paid_sessions, payment_notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING created_at`,
		res.ID, res.CourtID, res.Start, res.End, res.ContactName,
		res.ContactPhone, string(res.PaymentMethod), res.IsRecurring,
		res.RecurrenceEnd, res.PaidSessions, res.PaymentNotes,
	).Scan(&res.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return nil
}

// Get retrieves a reservation by its ID.
//
// Returns:
//   - error: repository.ErrNotFound if the reservation is not found.
func (r *ReservationRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	const op = "postgres.ReservationRepo.Get"

	db := r.handle()

	row := db.QueryRow(ctx,
		`SELECT `+reservationColumns+`
		 FROM reservations WHERE id = $1`,
		id,
	)

	res, err := scanReservation(row)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return res, nil
}

// Update rewrites every mutable field of a reservation.
//
// Returns:
//   - error: repository.ErrNotFound if the reservation is not found.
//   - error: repository.ErrConflict when the new slot collides with another row.
func (r *ReservationRepo) Update(ctx context.Context, res *domain.Reservation) error {
	const op = "postgres.ReservationRepo.Update"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE reservations
		 SET court_id = $2, start_time = $3, end_time = $4, contact_name = $5,
			contact_phone = $6, payment_method = $7, is_recurring = $8,
			recurrence_end = $9, paid_sessions = $10, payment_notes = $11
		 WHERE id = $1`,
		res.ID, res.CourtID, res.Start, res.End, res.ContactName,
		res.ContactPhone, string(res.PaymentMethod), res.IsRecurring,
		res.RecurrenceEnd, res.PaidSessions, res.PaymentNotes,
	)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, translateDBErr(pgx.ErrNoRows))
	}

	return nil
}

// Delete removes a reservation. For a recurring series this removes every
// future occurrence at once, since none are persisted individually.
//
// Returns:
//   - error: repository.ErrNotFound if the reservation is not found.
func (r *ReservationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "postgres.ReservationRepo.Delete"

	db := r.handle()

	tag, err := db.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, translateDBErr(pgx.ErrNoRows))
	}

	return nil
}

// ListForCourtWindow returns the reservations relevant to a court and window:
// single bookings overlapping it plus recurring templates whose series
// intersects it. The recurring predicate is a superset; the expander applies
// the exact window.
func (r *ReservationRepo) ListForCourtWindow(
	ctx context.Context,
	courtID int64,
	from, to time.Time,
) ([]domain.Reservation, error) {
	const op = "postgres.ReservationRepo.ListForCourtWindow"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT `+reservationColumns+`
		 FROM reservations
		 WHERE court_id = $1
		   AND ((NOT is_recurring AND start_time < $3 AND end_time > $2)
		     OR (is_recurring AND start_time < $3 AND recurrence_end >= $2 - INTERVAL '1 day'))
		 ORDER BY start_time`,
		courtID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return collectReservations(op, rows)
}

// ListForWindow is ListForCourtWindow across every court, for calendar views.
func (r *ReservationRepo) ListForWindow(ctx context.Context, from, to time.Time) ([]domain.Reservation, error) {
	const op = "postgres.ReservationRepo.ListForWindow"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT `+reservationColumns+`
		 FROM reservations
		 WHERE (NOT is_recurring AND start_time < $2 AND end_time > $1)
		    OR (is_recurring AND start_time < $2 AND recurrence_end >= $1 - INTERVAL '1 day')
		 ORDER BY start_time`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return collectReservations(op, rows)
}

// ListForCourtsWindow restricts ListForWindow to a set of courts. Used when
// a block event is about to override their schedules.
func (r *ReservationRepo) ListForCourtsWindow(
	ctx context.Context,
	courtIDs []int64,
	from, to time.Time,
) ([]domain.Reservation, error) {
	const op = "postgres.ReservationRepo.ListForCourtsWindow"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT `+reservationColumns+`
		 FROM reservations
		 WHERE court_id = ANY($1)
		   AND ((NOT is_recurring AND start_time < $3 AND end_time > $2)
		     OR (is_recurring AND start_time < $3 AND recurrence_end >= $2 - INTERVAL '1 day'))
		 ORDER BY start_time`,
		courtIDs, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return collectReservations(op, rows)
}

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var res domain.Reservation
	var method string

	err := row.Scan(
		&res.ID,
		&res.CourtID,
		&res.Start,
		&res.End,
		&res.ContactName,
		&res.ContactPhone,
		&method,
		&res.IsRecurring,
		&res.RecurrenceEnd,
		&res.PaidSessions,
		&res.PaymentNotes,
		&res.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.PaymentMethod = domain.PaymentMethod(method)

	return &res, nil
}

func collectReservations(op string, rows pgx.Rows) ([]domain.Reservation, error) {
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}
		out = append(out, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}
