package domain

import (
	"time"

	"github.com/google/uuid"
)

type CourtType string

const (
	CourtFutbol CourtType = "futbol"
	CourtPadel  CourtType = "padel"
)

func (t CourtType) Valid() bool {
	return t == CourtFutbol || t == CourtPadel
}

// SlotGranularity is the spacing between bookable start ticks for the type.
func (t CourtType) SlotGranularity() time.Duration {
	if t == CourtPadel {
		return 30 * time.Minute
	}
	return time.Hour
}

// SessionDuration is the fixed length of a single session on the type.
func (t CourtType) SessionDuration() time.Duration {
	if t == CourtPadel {
		return 90 * time.Minute
	}
	return time.Hour
}

type Court struct {
	ID   int64     `json:"id"`
	Name string    `json:"name"`
	Type CourtType `json:"type"`
}

type PaymentMethod string

const (
	PaymentPending  PaymentMethod = "pending"
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentCard     PaymentMethod = "card"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentPending, PaymentCash, PaymentTransfer, PaymentCard:
		return true
	}
	return false
}

// Reservation is a single booking or, when IsRecurring is set, the template
// of a weekly series. Only the first occurrence is ever persisted; later
// occurrences are derived on demand.
type Reservation struct {
	ID            uuid.UUID     `json:"id"`
	CourtID       int64         `json:"court_id"`
	Start         time.Time     `json:"start_time"`
	End           time.Time     `json:"end_time"`
	ContactName   string        `json:"contact_name"`
	ContactPhone  string        `json:"contact_phone"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	IsRecurring   bool          `json:"is_recurring"`
	RecurrenceEnd *time.Time    `json:"recurrence_end,omitempty"` // set iff IsRecurring
	PaidSessions  int           `json:"paid_sessions"`
	PaymentNotes  string        `json:"payment_notes,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// Occurrence is one weekly instance derived from a recurring reservation.
// Never persisted.
type Occurrence struct {
	SeriesID uuid.UUID `json:"series_id"`
	Index    int       `json:"index"` // 0 at the template's own start
	Start    time.Time `json:"start_time"`
	End      time.Time `json:"end_time"`
	Paid     bool      `json:"paid"`
}

// BlockEvent is an operator-created interval that makes entire courts
// unavailable, overriding slot-level availability.
type BlockEvent struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CourtIDs  []int64   `json:"court_ids"`
	Start     time.Time `json:"start_time"`
	End       time.Time `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
}

// Covers reports whether the block applies to the given court.
func (b *BlockEvent) Covers(courtID int64) bool {
	for _, id := range b.CourtIDs {
		if id == courtID {
			return true
		}
	}
	return false
}

// SeriesPayments summarizes the payment state of a recurring series.
type SeriesPayments struct {
	ReservationID   uuid.UUID  `json:"reservation_id"`
	TotalSessions   int        `json:"total_sessions"`
	PaidSessions    int        `json:"paid_sessions"`
	RemainingUnpaid int        `json:"remaining_unpaid"`
	NextUnpaidDate  *time.Time `json:"next_unpaid_date,omitempty"`
}
