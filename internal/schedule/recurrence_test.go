package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canchaclub/cancha-go/internal/domain"
)

func mondaySeries(paid int, weeks int) Series {
	start := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC) // a Monday
	return Series{
		ID:            uuid.New(),
		Start:         start,
		End:           start.Add(time.Hour),
		RecurrenceEnd: start.AddDate(0, 0, 7*weeks),
		PaidSessions:  paid,
	}
}

func TestExpandAll_WeeklySeries(t *testing.T) {
	s := mondaySeries(0, 3) // start + 3 weeks of repeats

	occs := ExpandAll(s)
	require.Len(t, occs, 4)

	for i, occ := range occs {
		assert.Equal(t, i, occ.Index)
		assert.Equal(t, s.Start.AddDate(0, 0, 7*i), occ.Start)
		assert.Equal(t, time.Hour, occ.End.Sub(occ.Start))
		assert.Equal(t, s.ID, occ.SeriesID)
	}
}

func TestExpand_WindowFiltering(t *testing.T) {
	s := mondaySeries(0, 5)

	// Window covering only the third week.
	windowStart := s.Start.AddDate(0, 0, 14).Add(-time.Hour)
	windowEnd := s.Start.AddDate(0, 0, 14).Add(24 * time.Hour)

	occs := Expand(s, windowStart, windowEnd)
	require.Len(t, occs, 1)
	assert.Equal(t, 2, occs[0].Index)
	assert.Equal(t, s.Start.AddDate(0, 0, 14), occs[0].Start)
}

func TestExpand_WindowEndExclusive(t *testing.T) {
	s := mondaySeries(0, 3)

	// Window ending exactly on the second occurrence's start excludes it.
	occs := Expand(s, s.Start, s.Start.AddDate(0, 0, 7))
	require.Len(t, occs, 1)
	assert.Equal(t, 0, occs[0].Index)
}

func TestExpand_RecurrenceEndBeforeStart(t *testing.T) {
	s := mondaySeries(0, 3)
	s.RecurrenceEnd = s.Start.AddDate(0, 0, -7)

	assert.Empty(t, Expand(s, s.Start.AddDate(0, 0, -14), s.Start.AddDate(0, 0, 14)))
}

func TestExpand_Deterministic(t *testing.T) {
	s := mondaySeries(2, 4)

	a := Expand(s, s.Start, s.RecurrenceEnd.AddDate(0, 0, 1))
	b := Expand(s, s.Start, s.RecurrenceEnd.AddDate(0, 0, 1))
	assert.Equal(t, a, b)
}

func TestExpand_PaidFlags(t *testing.T) {
	s := mondaySeries(2, 4) // 5 sessions, first 2 paid

	occs := ExpandAll(s)
	require.Len(t, occs, 5)

	for _, occ := range occs {
		assert.Equal(t, occ.Index < 2, occ.Paid, "occurrence %d", occ.Index)
	}
}

func TestSeriesOf(t *testing.T) {
	end := time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC)

	single := domain.Reservation{IsRecurring: false}
	_, ok := SeriesOf(&single)
	assert.False(t, ok)

	recurring := domain.Reservation{
		ID:            uuid.New(),
		Start:         time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
		End:           time.Date(2026, 1, 5, 11, 0, 0, 0, time.UTC),
		IsRecurring:   true,
		RecurrenceEnd: &end,
		PaidSessions:  3,
	}
	s, ok := SeriesOf(&recurring)
	require.True(t, ok)
	assert.Equal(t, recurring.ID, s.ID)
	assert.Equal(t, end, s.RecurrenceEnd)
	assert.Equal(t, 3, s.PaidSessions)
}

func TestTotalSessions(t *testing.T) {
	start := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		end  time.Time
		want int
	}{
		{"same instant", start, 1},
		{"before start", start.AddDate(0, 0, -7), 1},
		{"one week later", start.AddDate(0, 0, 7), 2},
		{"under three weeks", start.AddDate(0, 0, 20), 3},
		{"exactly three weeks", start.AddDate(0, 0, 21), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TotalSessions(start, tt.end))
		})
	}
}

func TestClampPaidSessions(t *testing.T) {
	assert.Equal(t, 0, ClampPaidSessions(-1, 5))
	assert.Equal(t, 3, ClampPaidSessions(3, 5))
	assert.Equal(t, 5, ClampPaidSessions(9, 5))
}

func TestRemainingUnpaid(t *testing.T) {
	assert.Equal(t, 3, RemainingUnpaid(5, 2))
	assert.Equal(t, 0, RemainingUnpaid(5, 5))
	assert.Equal(t, 0, RemainingUnpaid(5, 7))
}
