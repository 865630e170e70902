package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ismyyear/lockin/internal/model"
	"github.com/ismyyear/lockin/internal/repository"
	"github.com/ismyyear/lockin/internal/validation"
)

type GoalService struct {
	goals repository.GoalRepository
	users repository.UserRepository
}

func NewGoalService(goals repository.GoalRepository, users repository.UserRepository) *GoalService {
	return &GoalService{
		goals: goals,
		users: users,
	}
}

// Goals returns the user's goal list, empty when nothing has been saved yet.
func (s *GoalService) Goals(ctx context.Context, userID string) (*model.GoalList, error) {
	if _, err := s.users.ByID(ctx, userID); err != nil {
		return nil, err
	}

	list, err := s.goals.ByUserID(ctx, userID)
	if errors.Is(err, repository.ErrGoalsNotFound) {
		return &model.GoalList{UserID: userID, Goals: model.GoalItems{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load goals: %w", err)
	}

	return list, nil
}

// Save replaces the whole goal list after dropping blank entries.
func (s *GoalService) Save(ctx context.Context, userID string, items []model.GoalItem) (model.GoalItems, error) {
	cleaned, err := validation.CleanGoals(items)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	err = s.goals.Upsert(ctx, &model.GoalList{
		UserID:    userID,
		Goals:     cleaned,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save goals: %w", err)
	}

	return cleaned, nil
}
