package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ismyyear/lockin/internal/model"
	"github.com/ismyyear/lockin/internal/repository"
	"github.com/ismyyear/lockin/internal/validation"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const PublicGoalsLimit = 20

type ProfileService struct {
	users repository.UserRepository
}

func NewProfileService(users repository.UserRepository) *ProfileService {
	return &ProfileService{
		users: users,
	}
}

func (s *ProfileService) Profile(ctx context.Context, userID string) (*model.User, error) {
	return s.users.ByID(ctx, userID)
}

// UpdateProfile saves the yearly goal and its visibility. A blank goal is stored as NULL.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID, goal string, public bool) (*model.User, error) {
	goal = strings.TrimSpace(goal)

	err := validation.ValidateGoal2026(goal)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	var stored *string
	if goal != "" {
		stored = &goal
	}

	err = s.users.UpdateProfile(ctx, userID, stored, public)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return s.users.ByID(ctx, userID)
}

type PublicGoal struct {
	ID            string    `json:"id"`
	DisplayName   string    `json:"display_name"`
	PrimaryFocus  *string   `json:"primary_focus"`
	FocusLabel    string    `json:"focus_label"`
	Goal2026      string    `json:"goal_2026"`
	CurrentStreak int       `json:"current_streak"`
	LongestStreak int       `json:"longest_streak"`
	CreatedAt     time.Time `json:"created_at"`
}

// PublicGoals lists the newest goals users chose to share.
func (s *ProfileService) PublicGoals(ctx context.Context) ([]PublicGoal, error) {
	rows, err := s.users.PublicGoals(ctx, PublicGoalsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load public goals: %w", err)
	}

	goals := make([]PublicGoal, 0, len(rows))
	for _, row := range rows {
		goals = append(goals, PublicGoal{
			ID:            row.ID,
			DisplayName:   displayName(row.Email),
			PrimaryFocus:  row.PrimaryFocus,
			FocusLabel:    FocusLabel(deref(row.PrimaryFocus, "")),
			Goal2026:      deref(row.Goal2026, ""),
			CurrentStreak: row.CurrentStreak,
			LongestStreak: row.LongestStreak,
			CreatedAt:     row.CreatedAt,
		})
	}
	return goals, nil
}

// FocusLabel turns a focus slug like "fitness_health" into "Fitness Health".
func FocusLabel(focus string) string {
	if focus == "" {
		return ""
	}
	words := strings.FieldsFunc(focus, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	return cases.Title(language.English).String(strings.Join(words, " "))
}

func displayName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return "Anonymous"
	}
	return local
}
