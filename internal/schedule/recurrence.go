package schedule

import (
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"github.com/canchaclub/cancha-go/internal/domain"
)

const week = 7 * 24 * time.Hour

// Series is the defining record of a weekly recurring reservation: the first
// occurrence plus the date the series stops repeating.
type Series struct {
	ID            uuid.UUID
	Start         time.Time
	End           time.Time
	RecurrenceEnd time.Time
	PaidSessions  int
}

// SeriesOf extracts the series template from a recurring reservation.
// Returns false for single bookings.
func SeriesOf(r *domain.Reservation) (Series, bool) {
	if !r.IsRecurring || r.RecurrenceEnd == nil {
		return Series{}, false
	}
	return Series{
		ID:            r.ID,
		Start:         r.Start,
		End:           r.End,
		RecurrenceEnd: *r.RecurrenceEnd,
		PaidSessions:  r.PaidSessions,
	}, true
}

// Expand derives the occurrences of s whose start falls inside
// [windowStart, windowEnd). It is pure: identical arguments always yield
// identical results, and nothing is written anywhere. Occurrences step in
// 7-day increments from the series start while the start stays at or before
// the recurrence end.
func Expand(s Series, windowStart, windowEnd time.Time) []domain.Occurrence {
	// NewRRule only fails on inconsistent options (a BYSETPOS without a BYxxx
	// rule, a non-positive interval). This option set is constant and valid
	// for any Dtstart/Until pair, including Until before Dtstart, which just
	// yields no occurrences.
	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.WEEKLY,
		Dtstart: s.Start,
		Until:   s.RecurrenceEnd,
	})
	if err != nil {
		return nil
	}

	duration := s.End.Sub(s.Start)

	// Between is inclusive on both ends; the window is half-open.
	starts := rule.Between(windowStart, windowEnd, true)

	var out []domain.Occurrence
	for _, start := range starts {
		if !start.Before(windowEnd) {
			continue
		}
		idx := int(start.Sub(s.Start) / week)
		out = append(out, domain.Occurrence{
			SeriesID: s.ID,
			Index:    idx,
			Start:    start,
			End:      start.Add(duration),
			Paid:     idx < s.PaidSessions,
		})
	}

	return out
}

// ExpandAll expands the whole series from its first occurrence through the
// recurrence end.
func ExpandAll(s Series) []domain.Occurrence {
	return Expand(s, s.Start, s.RecurrenceEnd.Add(time.Second))
}

// OccurrenceStart is the start of the occurrence at the given index.
func OccurrenceStart(seriesStart time.Time, index int) time.Time {
	return seriesStart.Add(time.Duration(index) * week)
}

// TotalSessions is the number of occurrences of a weekly series:
// floor(weeks between start and recurrence end) + 1, never less than 1.
func TotalSessions(start, recurrenceEnd time.Time) int {
	if !recurrenceEnd.After(start) {
		return 1
	}
	return int(recurrenceEnd.Sub(start)/week) + 1
}

// RemainingUnpaid is the count of sessions still owed.
func RemainingUnpaid(total, paid int) int {
	if paid >= total {
		return 0
	}
	return total - paid
}

// ClampPaidSessions keeps paid within [0, total]. Overshoot is non-fatal:
// operators sometimes record advance payments past the series end.
func ClampPaidSessions(paid, total int) int {
	if paid < 0 {
		return 0
	}
	if paid > total {
		return total
	}
	return paid
}
