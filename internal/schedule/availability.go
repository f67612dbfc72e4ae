package schedule

import (
	"time"

	"github.com/canchaclub/cancha-go/internal/domain"
)

// Facility hours. Futbol ticks run on the hour from 10:00; padel runs on a
// 30-minute grid and opens half an hour earlier, at 09:30.
const (
	openHour  = 10
	closeHour = 24

	// TickStride is the resolution of the booked-tick set. It has to be 30
	// minutes even for futbol courts because padel sessions are not whole
	// hours.
	TickStride = 30 * time.Minute
)

// Interval is a half-open busy span [Start, End) on a court.
type Interval struct {
	Start time.Time
	End   time.Time
}

func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// Availability is the result of the slot computation for one court and
// window. When Blocked is set the per-slot fields are empty and Event names
// the block that owns the window.
type Availability struct {
	Blocked     bool               `json:"blocked"`
	Event       *domain.BlockEvent `json:"event,omitempty"`
	FreeTicks   []time.Time        `json:"free_ticks"`
	BookedTicks []time.Time        `json:"booked_ticks"`
}

// ComputeAvailability derives free and booked ticks for a court. Busy spans
// come from direct reservations plus expanded occurrences; blocks override
// the computation entirely. Ticks at or before now are never offered.
func ComputeAvailability(
	court domain.Court,
	windowStart, windowEnd time.Time,
	busy []Interval,
	blocks []domain.BlockEvent,
	now time.Time,
) Availability {
	window := Interval{Start: windowStart, End: windowEnd}

	for i := range blocks {
		b := &blocks[i]
		if b.Covers(court.ID) && window.Overlaps(Interval{Start: b.Start, End: b.End}) {
			return Availability{Blocked: true, Event: b}
		}
	}

	booked := make(map[int64]struct{})
	for _, span := range busy {
		for t := span.Start; t.Before(span.End); t = t.Add(TickStride) {
			booked[t.Unix()] = struct{}{}
		}
	}

	granularity := court.Type.SlotGranularity()

	out := Availability{}
	for day := startOfDay(windowStart); day.Before(windowEnd); day = day.AddDate(0, 0, 1) {
		first := day.Add(openHour * time.Hour)
		if court.Type == domain.CourtPadel {
			first = first.Add(-TickStride)
		}
		bound := day.Add(closeHour * time.Hour)

		for t := first; t.Before(bound); t = t.Add(granularity) {
			if t.Before(windowStart) || !t.Before(windowEnd) {
				continue
			}
			if !t.After(now) {
				continue
			}
			if _, taken := booked[t.Unix()]; taken {
				out.BookedTicks = append(out.BookedTicks, t)
			} else {
				out.FreeTicks = append(out.FreeTicks, t)
			}
		}
	}

	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
