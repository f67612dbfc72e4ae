package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canchaclub/cancha-go/internal/domain"
)

func weekWindow() (time.Time, time.Time) {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC) // Monday
	return start, start.AddDate(0, 0, 7)
}

func TestWeekView_SinglesAndOccurrences(t *testing.T) {
	windowStart, windowEnd := weekWindow()
	courts := []domain.Court{futbolCourt, padelCourt}

	recEnd := time.Date(2026, 1, 26, 18, 0, 0, 0, time.UTC)
	reservations := []domain.Reservation{
		{
			ID:            uuid.New(),
			CourtID:       futbolCourt.ID,
			Start:         time.Date(2026, 1, 6, 20, 0, 0, 0, time.UTC),
			End:           time.Date(2026, 1, 6, 21, 0, 0, 0, time.UTC),
			ContactName:   "Diego",
			PaymentMethod: domain.PaymentCash,
		},
		{
			ID:            uuid.New(),
			CourtID:       padelCourt.ID,
			Start:         time.Date(2026, 1, 5, 18, 0, 0, 0, time.UTC),
			End:           time.Date(2026, 1, 5, 19, 30, 0, 0, time.UTC),
			ContactName:   "Lucia",
			PaymentMethod: domain.PaymentPending,
			IsRecurring:   true,
			RecurrenceEnd: &recEnd,
			PaidSessions:  1,
		},
	}

	days := WeekView(windowStart, windowEnd, courts, reservations, nil)
	require.Len(t, days, 2)

	// Monday: the first occurrence of Lucia's series, marked paid.
	monday := days[0]
	assert.Equal(t, windowStart, monday.Date)
	require.Len(t, monday.Items, 1)
	occ := monday.Items[0]
	assert.Equal(t, ClassPadel, occ.Class)
	assert.Equal(t, TagPaid, occ.PaymentTag)
	assert.Equal(t, "Lucia", occ.Title)
	assert.Equal(t, 0, occ.OccurrenceIndex)
	assert.Equal(t, []string{padelCourt.Name}, occ.Courts)

	// Tuesday: Diego's single, paid in cash, no occurrence index.
	tuesday := days[1]
	require.Len(t, tuesday.Items, 1)
	single := tuesday.Items[0]
	assert.Equal(t, ClassFutbol, single.Class)
	assert.Equal(t, TagPaid, single.PaymentTag)
	assert.Equal(t, -1, single.OccurrenceIndex)
}

func TestWeekView_UnpaidOccurrenceTag(t *testing.T) {
	windowStart, windowEnd := weekWindow()

	recEnd := time.Date(2026, 1, 26, 18, 0, 0, 0, time.UTC)
	reservations := []domain.Reservation{{
		ID:            uuid.New(),
		CourtID:       padelCourt.ID,
		Start:         time.Date(2026, 1, 5, 18, 0, 0, 0, time.UTC),
		End:           time.Date(2026, 1, 5, 19, 30, 0, 0, time.UTC),
		ContactName:   "Lucia",
		PaymentMethod: domain.PaymentPending,
		IsRecurring:   true,
		RecurrenceEnd: &recEnd,
		PaidSessions:  0,
	}}

	days := WeekView(windowStart, windowEnd, []domain.Court{padelCourt}, reservations, nil)
	require.Len(t, days, 1)
	require.Len(t, days[0].Items, 1)
	assert.Equal(t, TagPending, days[0].Items[0].PaymentTag)
}

func TestWeekView_GroupsBlocksAcrossCourts(t *testing.T) {
	windowStart, windowEnd := weekWindow()
	courts := []domain.Court{futbolCourt, padelCourt}

	start := time.Date(2026, 1, 7, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 7, 22, 0, 0, 0, time.UTC)
	blocks := []domain.BlockEvent{
		{ID: uuid.New(), Name: "Torneo", CourtIDs: []int64{futbolCourt.ID}, Start: start, End: end},
		{ID: uuid.New(), Name: "Torneo", CourtIDs: []int64{padelCourt.ID}, Start: start, End: end},
	}

	days := WeekView(windowStart, windowEnd, courts, nil, blocks)
	require.Len(t, days, 1)
	require.Len(t, days[0].Items, 1, "same-name blocks collapse into one entry")

	item := days[0].Items[0]
	assert.Equal(t, ClassEvent, item.Class)
	assert.Equal(t, "Torneo", item.Title)
	assert.ElementsMatch(t, []string{futbolCourt.Name, padelCourt.Name}, item.Courts)
	assert.Empty(t, item.PaymentTag)
}

func TestWeekView_MultiDayBlock(t *testing.T) {
	windowStart, windowEnd := weekWindow()

	blocks := []domain.BlockEvent{{
		ID:       uuid.New(),
		Name:     "Mantenimiento",
		CourtIDs: []int64{futbolCourt.ID},
		Start:    time.Date(2026, 1, 6, 8, 0, 0, 0, time.UTC),
		End:      time.Date(2026, 1, 8, 12, 0, 0, 0, time.UTC),
	}}

	days := WeekView(windowStart, windowEnd, []domain.Court{futbolCourt}, nil, blocks)
	require.Len(t, days, 3)
	for i, d := range days {
		assert.Equal(t, time.Date(2026, 1, 6+i, 0, 0, 0, 0, time.UTC), d.Date)
		require.Len(t, d.Items, 1)
		assert.Equal(t, "Mantenimiento", d.Items[0].Title)
	}
}

func TestWeekView_SortedByStart(t *testing.T) {
	windowStart, windowEnd := weekWindow()

	reservations := []domain.Reservation{
		{
			ID:          uuid.New(),
			CourtID:     futbolCourt.ID,
			Start:       time.Date(2026, 1, 5, 20, 0, 0, 0, time.UTC),
			End:         time.Date(2026, 1, 5, 21, 0, 0, 0, time.UTC),
			ContactName: "Late",
		},
		{
			ID:          uuid.New(),
			CourtID:     futbolCourt.ID,
			Start:       time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
			End:         time.Date(2026, 1, 5, 11, 0, 0, 0, time.UTC),
			ContactName: "Early",
		},
	}

	days := WeekView(windowStart, windowEnd, []domain.Court{futbolCourt}, reservations, nil)
	require.Len(t, days, 1)
	require.Len(t, days[0].Items, 2)
	assert.Equal(t, "Early", days[0].Items[0].Title)
	assert.Equal(t, "Late", days[0].Items[1].Title)
}
