package aggregate

import (
	"math"
	"time"

	"github.com/ismyyear/lockin/internal/model"
)

// Summary is the per-user dashboard rollup.
type Summary struct {
	TotalCheckins     int  `json:"total_checkins"`
	AverageCompletion int  `json:"average_completion"`
	LatestPoints      *int `json:"latest_points"`
	CurrentStreak     int  `json:"current_streak"`
	LongestStreak     int  `json:"longest_streak"`
}

func Summarize(checkins []*model.Checkin, today time.Time) Summary {
	summary := Summary{
		CurrentStreak: Streak(checkins, today),
		LongestStreak: LongestStreak(checkins),
	}

	var latest *model.Checkin
	total := 0
	for _, c := range checkins {
		if c == nil {
			continue
		}
		summary.TotalCheckins++
		total += c.AchievedPoints
		if latest == nil || c.Date > latest.Date {
			latest = c
		}
	}

	if summary.TotalCheckins > 0 {
		summary.AverageCompletion = int(math.Round(float64(total) / float64(summary.TotalCheckins)))
	}
	if latest != nil {
		points := latest.AchievedPoints
		summary.LatestPoints = &points
	}

	return summary
}
