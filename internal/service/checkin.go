package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ismyyear/lockin/internal/aggregate"
	"github.com/ismyyear/lockin/internal/cache"
	"github.com/ismyyear/lockin/internal/metrics"
	"github.com/ismyyear/lockin/internal/model"
	"github.com/ismyyear/lockin/internal/repository"
	"github.com/ismyyear/lockin/internal/validation"
)

type CheckinService struct {
	checkins repository.CheckinRepository
	users    repository.UserRepository
	cache    cache.Cache
	now      func() time.Time
}

func NewCheckinService(checkins repository.CheckinRepository, users repository.UserRepository, c cache.Cache) *CheckinService {
	return &CheckinService{
		checkins: checkins,
		users:    users,
		cache:    c,
		now:      time.Now,
	}
}

type CheckinInput struct {
	UserID         string
	AchievedPoints *int
	Date           string // YYYY-MM-DD, defaults to today in UTC
	CompletedGoals model.CompletedGoals
}

// Save creates or overwrites the user's check-in for the day and refreshes
// the derived streaks and leaderboard cache.
func (s *CheckinService) Save(ctx context.Context, in CheckinInput) (*model.Checkin, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" || in.AchievedPoints == nil {
		return nil, fmt.Errorf("%w: user_id and achieved_points are required", ErrValidation)
	}
	if err := validation.ValidatePoints(*in.AchievedPoints); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	now := s.now().UTC()
	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = model.FormatDate(now)
	}
	if err := validation.ValidateDate(date); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	completed := in.CompletedGoals
	if completed == nil {
		completed = model.CompletedGoals{}
	}

	saved, err := s.checkins.Upsert(ctx, &model.Checkin{
		ID:             uuid.New().String(),
		UserID:         userID,
		Date:           date,
		AchievedPoints: *in.AchievedPoints,
		CompletedGoals: completed,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save checkin: %w", err)
	}

	metrics.CheckinsSaved.Inc()
	s.cache.InvalidatePrefix(ctx, LeaderboardCachePrefix)

	if _, err := s.RecomputeStreaks(ctx, userID); err != nil {
		slog.Error("failed to update streaks", "error", err, "user_id", userID)
	}

	return saved, nil
}

// List returns the user's check-ins newest first, optionally bounded by from/to.
func (s *CheckinService) List(ctx context.Context, userID, from, to string) ([]*model.Checkin, error) {
	for _, d := range []string{from, to} {
		if d == "" {
			continue
		}
		if err := validation.ValidateDate(d); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrValidation, err)
		}
	}

	if _, err := s.users.ByID(ctx, userID); err != nil {
		return nil, err
	}

	return s.checkins.ByUser(ctx, userID, from, to)
}

// Stats summarizes every check-in the user has made.
func (s *CheckinService) Stats(ctx context.Context, userID string) (*aggregate.Summary, error) {
	if _, err := s.users.ByID(ctx, userID); err != nil {
		return nil, err
	}

	all, err := s.checkins.ByUser(ctx, userID, "", "")
	if err != nil {
		return nil, fmt.Errorf("failed to load checkins: %w", err)
	}

	summary := aggregate.Summarize(all, s.now().UTC())
	return &summary, nil
}

// RecomputeStreaks derives current and longest streak from the user's
// history and stores them on the user row.
func (s *CheckinService) RecomputeStreaks(ctx context.Context, userID string) (*aggregate.Summary, error) {
	all, err := s.checkins.ByUser(ctx, userID, "", "")
	if err != nil {
		return nil, fmt.Errorf("failed to load checkins: %w", err)
	}

	summary := aggregate.Summarize(all, s.now().UTC())
	err = s.users.UpdateStreaks(ctx, userID, summary.CurrentStreak, summary.LongestStreak)
	if err != nil {
		return nil, fmt.Errorf("failed to store streaks: %w", err)
	}

	return &summary, nil
}

// RecomputeAllStreaks refreshes every user's stored streaks and returns how many were updated.
func (s *CheckinService) RecomputeAllStreaks(ctx context.Context) (int, error) {
	ids, err := s.users.IDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list users: %w", err)
	}

	updated := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return updated, err
		}
		if _, err := s.RecomputeStreaks(ctx, id); err != nil {
			slog.Error("failed to recompute streaks", "error", err, "user_id", id)
			continue
		}
		updated++
	}

	return updated, nil
}
