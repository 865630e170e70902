package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ismyyear/lockin/internal/model"
	"github.com/ismyyear/lockin/internal/repository"
	"github.com/ismyyear/lockin/internal/validation"
)

type UserService struct {
	users        repository.UserRepository
	matcher      *MatcherService
	monthEndOnly bool
	now          func() time.Time
}

func NewUserService(users repository.UserRepository, matcher *MatcherService, monthEndOnly bool) *UserService {
	return &UserService{
		users:        users,
		matcher:      matcher,
		monthEndOnly: monthEndOnly,
		now:          time.Now,
	}
}

// Create syncs a user from the auth provider. Calling it again for the same
// id returns the stored row.
func (s *UserService) Create(ctx context.Context, id, email string) (*model.User, error) {
	id = strings.TrimSpace(id)
	email = strings.TrimSpace(strings.ToLower(email))
	if id == "" || email == "" {
		return nil, fmt.Errorf("%w: id and email are required", ErrValidation)
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	user := &model.User{
		ID:        id,
		Email:     email,
		IsNewUser: true,
		CreatedAt: s.now().UTC(),
	}
	err := s.users.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.users.ByID(ctx, id)
}

func (s *UserService) ByID(ctx context.Context, id string) (*model.User, error) {
	return s.users.ByID(ctx, id)
}

type Registration struct {
	User    *model.User
	Partner *model.User
}

// RegisterIntent stores the user's focus and joined month, then tries to
// find them a partner. A failed match is logged and never fails registration.
func (s *UserService) RegisterIntent(ctx context.Context, userID, focus string) (*Registration, error) {
	userID = strings.TrimSpace(userID)
	focus = strings.TrimSpace(focus)
	if userID == "" || focus == "" {
		return nil, fmt.Errorf("%w: user_id and primary_focus are required", ErrValidation)
	}

	now := s.now().UTC()
	if s.monthEndOnly && !IsLastDayOfMonth(now) {
		return nil, ErrRegistrationClosed
	}

	err := s.users.UpdateFocus(ctx, userID, focus, now.Format(model.MonthLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to update focus: %w", err)
	}

	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	partner, err := s.matcher.Match(ctx, userID, focus)
	if err != nil {
		slog.Error("failed to match partner", "error", err, "user_id", userID, "focus", focus,
			"partner_unavailable", errors.Is(err, ErrPartnerUnavailable))
		partner = nil
	}

	return &Registration{User: user, Partner: partner}, nil
}

// IsLastDayOfMonth reports whether t falls on the final calendar day of its month.
func IsLastDayOfMonth(t time.Time) bool {
	return t.AddDate(0, 0, 1).Month() != t.Month()
}
