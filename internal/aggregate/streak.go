package aggregate

import (
	"sort"
	"time"

	"github.com/ismyyear/lockin/internal/model"
)

// MaxStreakLookback bounds the backward walk in Streak.
const MaxStreakLookback = 365

// Streak counts consecutive days with positive points, walking backward from
// today. Days before the first qualifying one are skipped; once counting has
// started, the first day without positive points ends the streak.
func Streak(checkins []*model.Checkin, today time.Time) int {
	points := make(map[string]int, len(checkins))
	for _, c := range checkins {
		if c == nil {
			continue
		}
		points[c.Date] = c.AchievedPoints
	}

	streak := 0
	day := today
	for i := 0; i < MaxStreakLookback; i++ {
		p, ok := points[model.FormatDate(day)]
		if ok && p > 0 {
			streak++
		} else if streak > 0 {
			break
		}
		day = day.AddDate(0, 0, -1)
	}

	return streak
}

// LongestStreak is the longest run of consecutive calendar days with positive points.
func LongestStreak(checkins []*model.Checkin) int {
	seen := make(map[string]bool)
	var days []time.Time
	for _, c := range checkins {
		if c == nil || c.AchievedPoints <= 0 || seen[c.Date] {
			continue
		}
		d, err := model.ParseDate(c.Date)
		if err != nil {
			continue
		}
		seen[c.Date] = true
		days = append(days, d)
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 0, 0
	for i, d := range days {
		if i > 0 && d.Sub(days[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}

	return longest
}
