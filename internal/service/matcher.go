package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ismyyear/lockin/internal/metrics"
	"github.com/ismyyear/lockin/internal/model"
	"github.com/ismyyear/lockin/internal/repository"
)

// PartnerStore is the slice of user storage the matcher needs.
// repository.UserRepository satisfies it.
type PartnerStore interface {
	ByID(ctx context.Context, id string) (*model.User, error)
	FindUnmatched(ctx context.Context, focus, excludeID string) (*model.User, error)
	LinkPartners(ctx context.Context, userID, partnerID string) error
}

type PartnerNotifier interface {
	SendPartnerMatched(ctx context.Context, user, partner *model.User) error
}

type MatcherService struct {
	store    PartnerStore
	notifier PartnerNotifier
}

// NewMatcherService builds a matcher. notifier may be nil.
func NewMatcherService(store PartnerStore, notifier PartnerNotifier) *MatcherService {
	return &MatcherService{
		store:    store,
		notifier: notifier,
	}
}

// Match pairs the requester with one unmatched user sharing the same focus.
// It returns (nil, nil) when the requester already has a partner or when no
// candidate exists. Both partner links are written atomically; on failure
// neither link persists and the error wraps ErrMatchWriteFailed.
func (s *MatcherService) Match(ctx context.Context, requesterID, focus string) (*model.User, error) {
	requester, err := s.store.ByID(ctx, requesterID)
	if err != nil {
		metrics.PartnerMatches.WithLabelValues(metrics.MatchFailed).Inc()
		return nil, fmt.Errorf("%w: load requester %s: %w", ErrLookupFailed, requesterID, err)
	}

	if requester.HasPartner() {
		metrics.PartnerMatches.WithLabelValues(metrics.MatchAlreadyMatched).Inc()
		return nil, nil
	}

	candidate, err := s.store.FindUnmatched(ctx, focus, requesterID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			metrics.PartnerMatches.WithLabelValues(metrics.MatchNoCandidate).Inc()
			return nil, nil
		}
		metrics.PartnerMatches.WithLabelValues(metrics.MatchFailed).Inc()
		return nil, fmt.Errorf("%w: find candidate: %w", ErrLookupFailed, err)
	}

	err = s.store.LinkPartners(ctx, requester.ID, candidate.ID)
	if err != nil {
		metrics.PartnerMatches.WithLabelValues(metrics.MatchFailed).Inc()
		return nil, fmt.Errorf("%w: link %s and %s: %w", ErrMatchWriteFailed, requester.ID, candidate.ID, err)
	}

	requester.PartnerID = &candidate.ID
	candidate.PartnerID = &requester.ID
	metrics.PartnerMatches.WithLabelValues(metrics.MatchMatched).Inc()
	slog.Info("partner matched", "user_id", requester.ID, "partner_id", candidate.ID, "focus", focus)

	s.notify(ctx, requester, candidate)

	return candidate, nil
}

func (s *MatcherService) notify(ctx context.Context, requester, partner *model.User) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendPartnerMatched(ctx, requester, partner); err != nil {
		slog.Warn("failed to send partner matched email", "error", err, "user_id", requester.ID)
	}
	if err := s.notifier.SendPartnerMatched(ctx, partner, requester); err != nil {
		slog.Warn("failed to send partner matched email", "error", err, "user_id", partner.ID)
	}
}
