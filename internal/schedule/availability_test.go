package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canchaclub/cancha-go/internal/domain"
)

var (
	futbolCourt = domain.Court{ID: 1, Name: "Cancha 1", Type: domain.CourtFutbol}
	padelCourt  = domain.Court{ID: 2, Name: "Padel A", Type: domain.CourtPadel}
)

func day(hour, minute int) time.Time {
	return time.Date(2026, 1, 5, hour, minute, 0, 0, time.UTC)
}

func containsTick(ticks []time.Time, t time.Time) bool {
	for _, tick := range ticks {
		if tick.Equal(t) {
			return true
		}
	}
	return false
}

func TestComputeAvailability_PadelNeighborTicks(t *testing.T) {
	windowStart := day(0, 0)
	windowEnd := windowStart.AddDate(0, 0, 1)

	// A padel session 10:00-11:30 consumes three 30-minute ticks.
	busy := []Interval{{Start: day(10, 0), End: day(11, 30)}}

	avail := ComputeAvailability(padelCourt, windowStart, windowEnd, busy, nil, day(0, 0))
	require.False(t, avail.Blocked)

	for _, booked := range []time.Time{day(10, 0), day(10, 30), day(11, 0)} {
		assert.True(t, containsTick(avail.BookedTicks, booked), "%v should be booked", booked)
		assert.False(t, containsTick(avail.FreeTicks, booked))
	}

	// The neighbors on either side stay bookable.
	assert.True(t, containsTick(avail.FreeTicks, day(9, 30)))
	assert.True(t, containsTick(avail.FreeTicks, day(11, 30)))
}

func TestComputeAvailability_PadelGrid(t *testing.T) {
	windowStart := day(0, 0)
	windowEnd := windowStart.AddDate(0, 0, 1)

	avail := ComputeAvailability(padelCourt, windowStart, windowEnd, nil, nil, day(0, 0))

	// 09:30 through 23:30 on a 30-minute grid.
	require.Len(t, avail.FreeTicks, 29)
	assert.Equal(t, day(9, 30), avail.FreeTicks[0])
	assert.Equal(t, day(23, 30), avail.FreeTicks[len(avail.FreeTicks)-1])
	assert.Empty(t, avail.BookedTicks)
}

func TestComputeAvailability_FutbolGrid(t *testing.T) {
	windowStart := day(0, 0)
	windowEnd := windowStart.AddDate(0, 0, 1)

	busy := []Interval{{Start: day(12, 0), End: day(13, 0)}}

	avail := ComputeAvailability(futbolCourt, windowStart, windowEnd, busy, nil, day(0, 0))

	// 10:00 through 23:00 on the hour, minus the booked noon slot.
	require.Len(t, avail.FreeTicks, 13)
	require.Len(t, avail.BookedTicks, 1)
	assert.Equal(t, day(12, 0), avail.BookedTicks[0])
	assert.Equal(t, day(10, 0), avail.FreeTicks[0])
	assert.Equal(t, day(23, 0), avail.FreeTicks[len(avail.FreeTicks)-1])

	for _, tick := range avail.FreeTicks {
		assert.Zero(t, tick.Minute(), "futbol ticks start on the hour")
	}
}

func TestComputeAvailability_PastTicksExcluded(t *testing.T) {
	windowStart := day(0, 0)
	windowEnd := windowStart.AddDate(0, 0, 1)

	now := day(12, 30)
	avail := ComputeAvailability(futbolCourt, windowStart, windowEnd, nil, nil, now)

	require.NotEmpty(t, avail.FreeTicks)
	assert.Equal(t, day(13, 0), avail.FreeTicks[0])
	for _, tick := range avail.FreeTicks {
		assert.True(t, tick.After(now))
	}
}

func TestComputeAvailability_Blocked(t *testing.T) {
	windowStart := day(0, 0)
	windowEnd := windowStart.AddDate(0, 0, 1)

	block := domain.BlockEvent{
		ID:       uuid.New(),
		Name:     "Torneo Clausura",
		CourtIDs: []int64{futbolCourt.ID},
		Start:    day(9, 0),
		End:      day(22, 0),
	}

	avail := ComputeAvailability(futbolCourt, windowStart, windowEnd, nil, []domain.BlockEvent{block}, day(0, 0))
	require.True(t, avail.Blocked)
	require.NotNil(t, avail.Event)
	assert.Equal(t, "Torneo Clausura", avail.Event.Name)
	assert.Empty(t, avail.FreeTicks)
	assert.Empty(t, avail.BookedTicks)

	// The same block does not touch other courts.
	other := ComputeAvailability(padelCourt, windowStart, windowEnd, nil, []domain.BlockEvent{block}, day(0, 0))
	assert.False(t, other.Blocked)
}

func TestInterval_Overlaps(t *testing.T) {
	base := Interval{Start: day(10, 0), End: day(11, 0)}

	tests := []struct {
		name  string
		other Interval
		want  bool
	}{
		{"identical", Interval{Start: day(10, 0), End: day(11, 0)}, true},
		{"contained", Interval{Start: day(10, 15), End: day(10, 45)}, true},
		{"leading edge", Interval{Start: day(9, 30), End: day(10, 30)}, true},
		{"trailing edge", Interval{Start: day(10, 30), End: day(11, 30)}, true},
		{"touching before", Interval{Start: day(9, 0), End: day(10, 0)}, false},
		{"touching after", Interval{Start: day(11, 0), End: day(12, 0)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
		})
	}
}
