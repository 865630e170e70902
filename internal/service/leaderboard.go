package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ismyyear/lockin/internal/aggregate"
	"github.com/ismyyear/lockin/internal/cache"
	"github.com/ismyyear/lockin/internal/metrics"
	"github.com/ismyyear/lockin/internal/model"
	"github.com/ismyyear/lockin/internal/repository"
)

// LeaderboardCachePrefix namespaces every cached leaderboard key.
const LeaderboardCachePrefix = "leaderboard:"

type LeaderboardService struct {
	checkins repository.CheckinRepository
	users    repository.UserRepository
	cache    cache.Cache
	opts     aggregate.Options
	ttl      time.Duration
}

func NewLeaderboardService(checkins repository.CheckinRepository, users repository.UserRepository, c cache.Cache, opts aggregate.Options, ttl time.Duration) *LeaderboardService {
	return &LeaderboardService{
		checkins: checkins,
		users:    users,
		cache:    c,
		opts:     opts,
		ttl:      ttl,
	}
}

// Weekly ranks users over the seven days ending on end.
func (s *LeaderboardService) Weekly(ctx context.Context, end time.Time) ([]aggregate.Entry, error) {
	key := weeklyCacheKey(end)
	if b, ok := s.cache.GetBytes(ctx, key); ok {
		var cached []aggregate.Entry
		if err := json.Unmarshal(b, &cached); err == nil {
			metrics.LeaderboardCache.WithLabelValues("hit").Inc()
			return cached, nil
		}
		slog.Warn("discarding unreadable leaderboard cache entry", "key", key)
	}
	metrics.LeaderboardCache.WithLabelValues("miss").Inc()

	from, to := aggregate.Window(end)
	rows, err := s.checkins.InRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load checkins: %w", err)
	}

	emails, err := s.emails(ctx, rows)
	if err != nil {
		return nil, err
	}

	entries := aggregate.Leaderboard(rows, emails, end, s.opts)
	s.cache.SetJSON(ctx, key, entries, s.ttl)

	return entries, nil
}

func (s *LeaderboardService) emails(ctx context.Context, rows []*model.Checkin) (map[string]string, error) {
	seen := make(map[string]bool)
	var ids []string
	for _, c := range rows {
		if !seen[c.UserID] {
			seen[c.UserID] = true
			ids = append(ids, c.UserID)
		}
	}

	users, err := s.users.ByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	emails := make(map[string]string, len(users))
	for _, u := range users {
		emails[u.ID] = u.Email
	}
	return emails, nil
}

func weeklyCacheKey(end time.Time) string {
	return LeaderboardCachePrefix + "weekly:" + model.FormatDate(end)
}
