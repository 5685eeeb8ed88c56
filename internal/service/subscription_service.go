package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// SubscriptionService manages report subscriptions.
type SubscriptionService interface {
	// Subscribe registers userID for reports at the given frequency.
	Subscribe(ctx context.Context, userID int64, frequency string) (*domain.Subscription, error)

	// Unsubscribe removes all of the user's subscriptions and returns how
	// many were removed. Removing none is not an error.
	Unsubscribe(ctx context.Context, userID int64) (int64, error)
}

type subscriptionServiceImpl struct {
	subscriptions store.SubscriptionStore
	logger        *slog.Logger
}

// NewSubscriptionService creates a SubscriptionService.
func NewSubscriptionService(
	subscriptions store.SubscriptionStore,
	log *slog.Logger,
) (SubscriptionService, error) {
	if subscriptions == nil {
		return nil, NewSubscriptionServiceError("create_service", "subscriptions cannot be nil", nil)
	}
	if log == nil {
		log = slog.Default()
	}
	return &subscriptionServiceImpl{
		subscriptions: subscriptions,
		logger:        log.With("component", "subscription_service"),
	}, nil
}

// Subscribe implements SubscriptionService.
func (s *subscriptionServiceImpl) Subscribe(
	ctx context.Context,
	userID int64,
	frequency string,
) (*domain.Subscription, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	sub, err := domain.NewSubscription(userID, frequency)
	if err != nil {
		return nil, err
	}

	if err := s.subscriptions.Create(ctx, sub); err != nil {
		if errors.Is(err, store.ErrInvalidEntity) {
			log.Debug("subscription for unknown user", "user_id", userID)
			return nil, domain.ErrInvalidUserID
		}
		log.Error("failed to create subscription", "user_id", userID, "error", err)
		return nil, NewSubscriptionServiceError("subscribe", "failed to save subscription", err)
	}

	log.Info("user subscribed", "user_id", userID, "frequency", sub.Frequency)
	return sub, nil
}

// Unsubscribe implements SubscriptionService.
func (s *subscriptionServiceImpl) Unsubscribe(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, domain.ErrInvalidUserID
	}

	removed, err := s.subscriptions.DeleteByUser(ctx, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete subscriptions",
			"user_id", userID,
			"error", err)
		return 0, NewSubscriptionServiceError("unsubscribe", "failed to delete subscriptions", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("user unsubscribed",
		"user_id", userID,
		"removed", removed)
	return removed, nil
}
