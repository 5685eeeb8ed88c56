package sqlite

import (
	"context"
	"fmt"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

type subscriptionStore struct{ s *Store }

func (ss subscriptionStore) Create(ctx context.Context, sub *domain.Subscription) error {
	m := subscriptionModel{UserID: sub.UserID, Frequency: string(sub.Frequency)}
	if err := ss.s.conn(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("failed to create subscription: %w", mapError(err, store.ErrNotFound))
	}
	sub.ID = m.ID
	return nil
}

func (ss subscriptionStore) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	result := ss.s.conn(ctx).Delete(&subscriptionModel{}, "user_id = ?", userID)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete subscriptions: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (ss subscriptionStore) ListByFrequency(ctx context.Context, frequency domain.Frequency) ([]domain.Subscription, error) {
	var rows []subscriptionModel
	err := ss.s.conn(ctx).Where("frequency = ?", string(frequency)).Order("id").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	subs := make([]domain.Subscription, 0, len(rows))
	for _, m := range rows {
		subs = append(subs, m.toDomain())
	}
	return subs, nil
}
