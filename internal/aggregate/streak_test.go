package aggregate

import (
	"testing"

	"github.com/ismyyear/lockin/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreak(t *testing.T) {
	tests := []struct {
		name     string
		checkins []*model.Checkin
		today    string
		want     int
	}{
		{
			name:  "no checkins",
			today: "2025-01-03",
			want:  0,
		},
		{
			name: "consecutive days ending today",
			checkins: []*model.Checkin{
				ci("u", "2025-01-01", 40),
				ci("u", "2025-01-02", 60),
				ci("u", "2025-01-03", 10),
			},
			today: "2025-01-03",
			want:  3,
		},
		{
			name: "zero points today is skipped before counting starts",
			checkins: []*model.Checkin{
				ci("u", "2025-01-01", 50),
				ci("u", "2025-01-02", 50),
				ci("u", "2025-01-03", 0),
			},
			today: "2025-01-03",
			want:  2,
		},
		{
			name: "gap ends the run",
			checkins: []*model.Checkin{
				ci("u", "2025-01-01", 50),
				ci("u", "2025-01-03", 50),
				ci("u", "2025-01-04", 50),
			},
			today: "2025-01-04",
			want:  2,
		},
		{
			name: "missing today counts from yesterday",
			checkins: []*model.Checkin{
				ci("u", "2025-01-02", 50),
			},
			today: "2025-01-03",
			want:  1,
		},
		{
			name: "only zero points",
			checkins: []*model.Checkin{
				ci("u", "2025-01-02", 0),
				ci("u", "2025-01-03", 0),
			},
			today: "2025-01-03",
			want:  0,
		},
		{
			name: "future rows are not walked",
			checkins: []*model.Checkin{
				ci("u", "2025-01-04", 80),
				ci("u", "2025-01-03", 80),
			},
			today: "2025-01-03",
			want:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Streak(tt.checkins, day(tt.today)))
		})
	}
}

func TestStreakBoundedByLookback(t *testing.T) {
	today := day("2025-12-31")
	var checkins []*model.Checkin
	for i := 0; i < MaxStreakLookback+30; i++ {
		checkins = append(checkins, ci("u", model.FormatDate(today.AddDate(0, 0, -i)), 100))
	}

	assert.Equal(t, MaxStreakLookback, Streak(checkins, today))
}

func TestStreakIgnoresActivityBeyondLookback(t *testing.T) {
	today := day("2025-12-31")
	old := today.AddDate(0, 0, -MaxStreakLookback-1)

	assert.Equal(t, 0, Streak([]*model.Checkin{ci("u", model.FormatDate(old), 100)}, today))
}

func TestLongestStreak(t *testing.T) {
	checkins := []*model.Checkin{
		ci("u", "2025-01-10", 20),
		ci("u", "2025-01-01", 10),
		ci("u", "2025-01-02", 10),
		ci("u", "2025-01-03", 10),
		ci("u", "2025-01-04", 0),
		ci("u", "2025-01-11", 20),
		ci("u", "bad-date", 20),
	}

	assert.Equal(t, 3, LongestStreak(checkins))
	assert.Equal(t, 0, LongestStreak(nil))
}

func TestLongestStreakAcrossMonthBoundary(t *testing.T) {
	checkins := []*model.Checkin{
		ci("u", "2024-02-28", 10),
		ci("u", "2024-02-29", 10),
		ci("u", "2024-03-01", 10),
	}

	assert.Equal(t, 3, LongestStreak(checkins))
}

func TestSummarize(t *testing.T) {
	checkins := []*model.Checkin{
		ci("u", "2025-01-03", 90),
		ci("u", "2025-01-01", 40),
		ci("u", "2025-01-02", 0),
	}

	s := Summarize(checkins, day("2025-01-03"))

	assert.Equal(t, 3, s.TotalCheckins)
	assert.Equal(t, 43, s.AverageCompletion)
	require.NotNil(t, s.LatestPoints)
	assert.Equal(t, 90, *s.LatestPoints)
	assert.Equal(t, 1, s.CurrentStreak)
	assert.Equal(t, 1, s.LongestStreak)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, day("2025-01-03"))

	assert.Equal(t, Summary{}, s)
}
