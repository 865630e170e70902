package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ismyyear/lockin/internal/aggregate"
	"github.com/ismyyear/lockin/internal/model"
	"github.com/ismyyear/lockin/internal/repository"
	"github.com/ismyyear/lockin/internal/storage"
)

var ErrExportStorageDisabled = errors.New("export storage is not configured")

// UserExport is everything stored about one user.
type UserExport struct {
	ExportedAt time.Time         `json:"exported_at"`
	User       *model.User       `json:"user"`
	Goals      model.GoalItems   `json:"goals"`
	Checkins   []*model.Checkin  `json:"checkins"`
	Summary    aggregate.Summary `json:"summary"`
}

type ExportService struct {
	users    repository.UserRepository
	goals    *GoalService
	checkins repository.CheckinRepository
	storage  storage.Storage
	now      func() time.Time
}

// NewExportService builds the exporter. store may be nil, which disables uploads.
func NewExportService(users repository.UserRepository, goals *GoalService, checkins repository.CheckinRepository, store storage.Storage) *ExportService {
	return &ExportService{
		users:    users,
		goals:    goals,
		checkins: checkins,
		storage:  store,
		now:      time.Now,
	}
}

func (s *ExportService) UploadsEnabled() bool {
	return s.storage != nil
}

func (s *ExportService) Build(ctx context.Context, userID string) (*UserExport, error) {
	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	goals, err := s.goals.Goals(ctx, userID)
	if err != nil {
		return nil, err
	}

	checkins, err := s.checkins.ByUser(ctx, userID, "", "")
	if err != nil {
		return nil, fmt.Errorf("failed to load checkins: %w", err)
	}

	now := s.now().UTC()
	return &UserExport{
		ExportedAt: now,
		User:       user,
		Goals:      goals.Goals,
		Checkins:   checkins,
		Summary:    aggregate.Summarize(checkins, now),
	}, nil
}

// Upload stores the export as JSON and returns a presigned download URL.
func (s *ExportService) Upload(ctx context.Context, export *UserExport) (string, error) {
	if s.storage == nil {
		return "", ErrExportStorageDisabled
	}

	body, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode export: %w", err)
	}

	key := fmt.Sprintf("exports/%s/%s.json", export.User.ID, uuid.New().String())
	err = s.storage.Save(ctx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to save export: %w", err)
	}

	return s.storage.PresignedURL(ctx, key)
}
