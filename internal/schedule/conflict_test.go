package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canchaclub/cancha-go/internal/domain"
)

func seriesCandidates(s Series) []Interval {
	occs := ExpandAll(s)
	out := make([]Interval, 0, len(occs))
	for _, occ := range occs {
		out = append(out, Interval{Start: occ.Start, End: occ.End})
	}
	return out
}

func TestFirstConflict_LaterWeekCollision(t *testing.T) {
	s := mondaySeries(0, 3) // Mondays 10:00-11:00, 4 occurrences

	// Week one is clear; a single booking already holds the week-3 slot.
	week3 := s.Start.AddDate(0, 0, 14)
	busy := []Interval{{Start: week3, End: week3.Add(time.Hour)}}

	c := FirstConflict(seriesCandidates(s), nil, busy)
	require.NotNil(t, c)
	assert.Nil(t, c.Block)
	assert.Equal(t, week3, c.At)
}

func TestFirstConflict_Clear(t *testing.T) {
	s := mondaySeries(0, 3)

	// Busy spans on other days never collide with the Monday series.
	tuesday := s.Start.AddDate(0, 0, 1)
	busy := []Interval{{Start: tuesday, End: tuesday.Add(time.Hour)}}

	assert.Nil(t, FirstConflict(seriesCandidates(s), nil, busy))
}

func TestFirstConflict_OccurrenceInsideBlock(t *testing.T) {
	s := mondaySeries(0, 3)

	// A block covering the second Monday catches the series mid-run.
	week2 := s.Start.AddDate(0, 0, 7)
	block := domain.BlockEvent{
		ID:    uuid.New(),
		Name:  "Torneo",
		Start: week2.Add(-time.Hour),
		End:   week2.Add(3 * time.Hour),
	}

	c := FirstConflict(seriesCandidates(s), []domain.BlockEvent{block}, nil)
	require.NotNil(t, c)
	require.NotNil(t, c.Block)
	assert.Equal(t, "Torneo", c.Block.Name)
	assert.Equal(t, week2, c.At)
}

func TestFirstConflict_BlockWinsOverBusy(t *testing.T) {
	start := day(18, 0)
	cand := []Interval{{Start: start, End: start.Add(time.Hour)}}

	block := domain.BlockEvent{ID: uuid.New(), Name: "Mantenimiento", Start: day(17, 0), End: day(20, 0)}
	busy := []Interval{{Start: start, End: start.Add(time.Hour)}}

	c := FirstConflict(cand, []domain.BlockEvent{block}, busy)
	require.NotNil(t, c)
	assert.NotNil(t, c.Block)
}

func TestBusyIntervals_ExpandsSeries(t *testing.T) {
	recEnd := day(18, 0).AddDate(0, 0, 21)
	series := domain.Reservation{
		ID:            uuid.New(),
		Start:         day(18, 0),
		End:           day(19, 0),
		IsRecurring:   true,
		RecurrenceEnd: &recEnd,
	}

	windowStart := day(0, 0)
	windowEnd := windowStart.AddDate(0, 0, 28)

	busy := BusyIntervals([]domain.Reservation{series}, windowStart, windowEnd)
	require.Len(t, busy, 4)
	for i, span := range busy {
		assert.Equal(t, day(18, 0).AddDate(0, 0, 7*i), span.Start)
	}
}

func TestBusyIntervals_ExcludesOwnSlot(t *testing.T) {
	editing := domain.Reservation{ID: uuid.New(), Start: day(10, 0), End: day(11, 0)}
	other := domain.Reservation{ID: uuid.New(), Start: day(12, 0), End: day(13, 0)}

	windowStart := day(0, 0)
	windowEnd := windowStart.AddDate(0, 0, 1)

	// Moving the reservation onto its own prior slot must not self-collide.
	busy := BusyIntervals([]domain.Reservation{editing, other}, windowStart, windowEnd, editing.ID)
	require.Len(t, busy, 1)
	assert.Equal(t, other.Start, busy[0].Start)

	cand := []Interval{{Start: editing.Start, End: editing.End}}
	assert.Nil(t, FirstConflict(cand, nil, busy))
}

func TestBusyIntervals_NeighborStartingBeforeWindow(t *testing.T) {
	// A 90-minute padel session starting half an hour before the window still
	// occupies the window's first hour.
	windowStart := day(10, 0)
	windowEnd := day(22, 0)

	neighbor := domain.Reservation{ID: uuid.New(), Start: day(9, 30), End: day(11, 0)}

	busy := BusyIntervals([]domain.Reservation{neighbor}, windowStart, windowEnd)
	require.Len(t, busy, 1)
	assert.True(t, busy[0].Overlaps(Interval{Start: windowStart, End: windowEnd}))
}
