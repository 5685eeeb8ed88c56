package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// PostgresSubscriptionStore implements the store.SubscriptionStore interface.
type PostgresSubscriptionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSubscriptionStore creates a new PostgreSQL implementation of the SubscriptionStore interface.
func NewPostgresSubscriptionStore(db store.DBTX, logger *slog.Logger) *PostgresSubscriptionStore {
	if db == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSubscriptionStore{
		db:     db,
		logger: logger.With(slog.String("component", "subscription_store")),
	}
}

var _ store.SubscriptionStore = (*PostgresSubscriptionStore)(nil)

// Create implements store.SubscriptionStore.Create.
func (s *PostgresSubscriptionStore) Create(ctx context.Context, sub *domain.Subscription) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO subscriptions (user_id, frequency) VALUES ($1, $2) RETURNING id`,
		sub.UserID, string(sub.Frequency),
	).Scan(&sub.ID)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("subscription for unknown user", slog.Int64("user_id", sub.UserID))
			return fmt.Errorf("%w: user with ID %d not found", store.ErrInvalidEntity, sub.UserID)
		}
		log.Error("failed to create subscription",
			slog.String("error", err.Error()),
			slog.Int64("user_id", sub.UserID))
		return MapError(err)
	}

	log.Info("subscription created",
		slog.Int64("user_id", sub.UserID),
		slog.String("frequency", string(sub.Frequency)))
	return nil
}

// DeleteByUser implements store.SubscriptionStore.DeleteByUser.
func (s *PostgresSubscriptionStore) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE user_id = $1`, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete subscriptions",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return 0, MapError(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// ListByFrequency implements store.SubscriptionStore.ListByFrequency.
func (s *PostgresSubscriptionStore) ListByFrequency(
	ctx context.Context,
	frequency domain.Frequency,
) ([]domain.Subscription, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, frequency FROM subscriptions WHERE frequency = $1 ORDER BY id`,
		string(frequency))
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	subs := []domain.Subscription{}
	for rows.Next() {
		var sub domain.Subscription
		var f string
		if err := rows.Scan(&sub.ID, &sub.UserID, &f); err != nil {
			return nil, store.NewStoreError("subscription", "list", "failed to scan row", err)
		}
		sub.Frequency = domain.Frequency(f)
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("subscription", "list", "failed to iterate rows", err)
	}
	return subs, nil
}
