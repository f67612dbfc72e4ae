package schedule

import (
	"time"

	"github.com/google/uuid"

	"github.com/canchaclub/cancha-go/internal/domain"
)

// expandPad widens the expansion window when flattening series into busy
// spans, so an occurrence starting just before the window still contributes
// its overlap. Sessions are at most 90 minutes.
const expandPad = 2 * time.Hour

// BusyIntervals flattens reservations into the busy spans they put on a
// court over [windowStart, windowEnd): recurring series are expanded into
// occurrences, singles contribute their own interval. Reservations whose ID
// is in exclude are skipped, so an edit never collides with its own prior
// slot.
func BusyIntervals(
	reservations []domain.Reservation,
	windowStart, windowEnd time.Time,
	exclude ...uuid.UUID,
) []Interval {
	skip := func(id uuid.UUID) bool {
		for _, x := range exclude {
			if id == x {
				return true
			}
		}
		return false
	}

	var busy []Interval
	for i := range reservations {
		r := &reservations[i]
		if skip(r.ID) {
			continue
		}
		if series, ok := SeriesOf(r); ok {
			for _, occ := range Expand(series, windowStart.Add(-expandPad), windowEnd) {
				busy = append(busy, Interval{Start: occ.Start, End: occ.End})
			}
			continue
		}
		busy = append(busy, Interval{Start: r.Start, End: r.End})
	}

	return busy
}

// Conflict is the first collision found for a candidate booking. Block is
// set when a block event owns the occurrence; otherwise another reservation
// holds the slot. At is the start of the losing occurrence.
type Conflict struct {
	At    time.Time
	Block *domain.BlockEvent
}

// FirstConflict walks every candidate occurrence against block events and
// busy spans. A weekly series can collide in a later week even when week one
// is clear, so every candidate is checked. Returns nil when all are free.
// Blocks win over busy spans so the caller can report the stronger cause.
func FirstConflict(candidates []Interval, blocks []domain.BlockEvent, busy []Interval) *Conflict {
	for _, cand := range candidates {
		for i := range blocks {
			b := &blocks[i]
			if cand.Overlaps(Interval{Start: b.Start, End: b.End}) {
				return &Conflict{At: cand.Start, Block: b}
			}
		}
		for _, span := range busy {
			if cand.Overlaps(span) {
				return &Conflict{At: cand.Start}
			}
		}
	}

	return nil
}
