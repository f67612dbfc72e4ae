package schedule

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/canchaclub/cancha-go/internal/domain"
)

type ItemClass string

const (
	ClassEvent  ItemClass = "event"
	ClassFutbol ItemClass = "futbol"
	ClassPadel  ItemClass = "padel"
)

type PaymentTag string

const (
	TagPaid    PaymentTag = "paid"
	TagPending PaymentTag = "pending"
)

// CalendarItem is one display entry in a day bucket: a single booking, a
// derived occurrence, or a (possibly grouped) block event.
type CalendarItem struct {
	Class           ItemClass  `json:"class"`
	PaymentTag      PaymentTag `json:"payment_tag,omitempty"` // empty for block events
	Title           string     `json:"title"`
	Courts          []string   `json:"courts"`
	Start           time.Time  `json:"start"`
	End             time.Time  `json:"end"`
	ReservationID   uuid.UUID  `json:"reservation_id,omitempty"` // zero for block events
	OccurrenceIndex int        `json:"occurrence_index"`         // -1 unless a derived occurrence
}

type DayBucket struct {
	Date  time.Time      `json:"date"`
	Items []CalendarItem `json:"items"`
}

// WeekView merges reservations, expanded occurrences, and block events into
// per-day buckets sorted by start time. Blocks sharing name, start, and end
// across several courts collapse into one entry listing every court name.
func WeekView(
	windowStart, windowEnd time.Time,
	courts []domain.Court,
	reservations []domain.Reservation,
	blocks []domain.BlockEvent,
) []DayBucket {
	courtsByID := make(map[int64]domain.Court, len(courts))
	for _, c := range courts {
		courtsByID[c.ID] = c
	}

	buckets := make(map[int64]*DayBucket)
	bucketFor := func(t time.Time) *DayBucket {
		day := startOfDay(t)
		if b, ok := buckets[day.Unix()]; ok {
			return b
		}
		b := &DayBucket{Date: day}
		buckets[day.Unix()] = b
		return b
	}

	for _, r := range reservations {
		court, ok := courtsByID[r.CourtID]
		if !ok {
			continue
		}

		if s, recurring := SeriesOf(&r); recurring {
			for _, occ := range Expand(s, windowStart, windowEnd) {
				item := CalendarItem{
					Class:           classOf(court.Type),
					PaymentTag:      TagPending,
					Title:           r.ContactName,
					Courts:          []string{court.Name},
					Start:           occ.Start,
					End:             occ.End,
					ReservationID:   r.ID,
					OccurrenceIndex: occ.Index,
				}
				if occ.Paid {
					item.PaymentTag = TagPaid
				}
				b := bucketFor(occ.Start)
				b.Items = append(b.Items, item)
			}
			continue
		}

		if r.Start.Before(windowStart) || !r.Start.Before(windowEnd) {
			continue
		}
		item := CalendarItem{
			Class:           classOf(court.Type),
			PaymentTag:      TagPending,
			Title:           r.ContactName,
			Courts:          []string{court.Name},
			Start:           r.Start,
			End:             r.End,
			ReservationID:   r.ID,
			OccurrenceIndex: -1,
		}
		if r.PaymentMethod != domain.PaymentPending {
			item.PaymentTag = TagPaid
		}
		b := bucketFor(r.Start)
		b.Items = append(b.Items, item)
	}

	for _, item := range groupBlocks(blocks, courtsByID) {
		// A block appears in every day it overlaps.
		first := startOfDay(item.Start)
		if first.Before(startOfDay(windowStart)) {
			first = startOfDay(windowStart)
		}
		for day := first; day.Before(item.End) && day.Before(windowEnd); day = day.AddDate(0, 0, 1) {
			b := bucketFor(day)
			b.Items = append(b.Items, item)
		}
	}

	out := make([]DayBucket, 0, len(buckets))
	for _, b := range buckets {
		sort.SliceStable(b.Items, func(i, j int) bool {
			if !b.Items[i].Start.Equal(b.Items[j].Start) {
				return b.Items[i].Start.Before(b.Items[j].Start)
			}
			return b.Items[i].Title < b.Items[j].Title
		})
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	return out
}

// groupBlocks deduplicates blocks that share name, start, and end into one
// entry whose Courts field lists every participating court name.
func groupBlocks(blocks []domain.BlockEvent, courtsByID map[int64]domain.Court) []CalendarItem {
	type key struct {
		name       string
		start, end int64
	}

	order := make([]key, 0, len(blocks))
	grouped := make(map[key]*CalendarItem)

	for _, b := range blocks {
		k := key{name: b.Name, start: b.Start.Unix(), end: b.End.Unix()}
		item, ok := grouped[k]
		if !ok {
			item = &CalendarItem{
				Class:           ClassEvent,
				Title:           b.Name,
				Start:           b.Start,
				End:             b.End,
				OccurrenceIndex: -1,
			}
			grouped[k] = item
			order = append(order, k)
		}
		for _, courtID := range b.CourtIDs {
			if c, found := courtsByID[courtID]; found {
				item.Courts = appendUnique(item.Courts, c.Name)
			}
		}
	}

	out := make([]CalendarItem, 0, len(order))
	for _, k := range order {
		out = append(out, *grouped[k])
	}
	return out
}

func appendUnique(names []string, name string) []string {
	for _, n := range names {
		if n == name {
			return names
		}
	}
	return append(names, name)
}

func classOf(t domain.CourtType) ItemClass {
	if t == domain.CourtPadel {
		return ClassPadel
	}
	return ClassFutbol
}
