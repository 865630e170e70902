// Package aggregate derives leaderboards and streaks from check-in rows.
// Everything here is a pure function of its inputs; fetching rows is the
// caller's job.
package aggregate

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ismyyear/lockin/internal/model"
)

type Scoring string

const (
	// ScoringAverage ranks by the rounded mean of a user's points in the window.
	ScoringAverage Scoring = "average"
	// ScoringSum ranks by the total of a user's points in the window.
	ScoringSum Scoring = "sum"
)

const (
	// WindowDays is the length of the leaderboard window, including its last day.
	WindowDays = 7

	DefaultLeaderboardSize = 10
	DefaultScoring         = ScoringAverage

	anonymousLabel = "Anonymous"
	labelPrefixLen = 3
)

type Options struct {
	Scoring Scoring
	Limit   int
}

func DefaultOptions() Options {
	return Options{
		Scoring: DefaultScoring,
		Limit:   DefaultLeaderboardSize,
	}
}

// ParseScoring validates a scoring name from configuration.
func ParseScoring(s string) (Scoring, error) {
	switch Scoring(s) {
	case ScoringAverage, ScoringSum:
		return Scoring(s), nil
	default:
		return "", fmt.Errorf("unknown leaderboard scoring %q", s)
	}
}

type Entry struct {
	UserID       string `json:"user_id"`
	DisplayLabel string `json:"display_label"`
	Score        int    `json:"score"`
}

// Window returns the first and last calendar day of the window ending at end.
func Window(end time.Time) (from, to string) {
	return model.FormatDate(end.AddDate(0, 0, -(WindowDays - 1))), model.FormatDate(end)
}

type tally struct {
	total int
	count int
}

// Leaderboard ranks users by their check-ins inside the window ending at
// windowEnd. Rows outside the window are ignored. Ties are broken by user id.
// emails maps user id to account email and is only used for display labels.
func Leaderboard(checkins []*model.Checkin, emails map[string]string, windowEnd time.Time, opts Options) []Entry {
	from, to := Window(windowEnd)

	stats := make(map[string]*tally)
	for _, c := range checkins {
		if c == nil || c.Date < from || c.Date > to {
			continue
		}
		t, ok := stats[c.UserID]
		if !ok {
			t = &tally{}
			stats[c.UserID] = t
		}
		t.total += c.AchievedPoints
		t.count++
	}

	entries := make([]Entry, 0, len(stats))
	for userID, t := range stats {
		entries = append(entries, Entry{
			UserID:       userID,
			DisplayLabel: DisplayLabel(emails[userID]),
			Score:        score(t, opts.Scoring),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].UserID < entries[j].UserID
	})

	if opts.Limit > 0 && len(entries) > opts.Limit {
		entries = entries[:opts.Limit]
	}

	return entries
}

func score(t *tally, scoring Scoring) int {
	if scoring == ScoringSum {
		return t.total
	}
	if t.count == 0 {
		return 0
	}
	return int(math.Round(float64(t.total) / float64(t.count)))
}

// DisplayLabel masks an email down to its first three characters.
func DisplayLabel(email string) string {
	if email == "" {
		return anonymousLabel
	}
	runes := []rune(email)
	if len(runes) > labelPrefixLen {
		runes = runes[:labelPrefixLen]
	}
	return string(runes) + "***"
}
