package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

type tombstoneStore struct{ s *Store }

func (ts tombstoneStore) Create(ctx context.Context, tombstones ...*domain.DeletedTask) error {
	for _, d := range tombstones {
		m := newDeletedTaskModel(d)
		if err := ts.s.conn(ctx).Create(m).Error; err != nil {
			return fmt.Errorf("failed to create tombstone: %w", mapError(err, store.ErrTombstoneNotFound))
		}
		d.ID = m.ID
	}
	return nil
}

func (ts tombstoneStore) Latest(ctx context.Context, userID int64) (*domain.DeletedTask, error) {
	var m deletedTaskModel
	err := ts.s.conn(ctx).
		Where("user_id = ?", userID).
		Order("deletion_time DESC").
		Order("id DESC").
		Take(&m).Error
	if err != nil {
		return nil, mapError(err, store.ErrTombstoneNotFound)
	}
	d := m.toDomain()
	return &d, nil
}

func (ts tombstoneStore) Delete(ctx context.Context, id int64) error {
	result := ts.s.conn(ctx).Delete(&deletedTaskModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete tombstone: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrTombstoneNotFound
	}
	return nil
}

func (ts tombstoneStore) CountByUser(ctx context.Context, userID int64) (int, error) {
	var n int64
	err := ts.s.conn(ctx).Model(&deletedTaskModel{}).Where("user_id = ?", userID).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count tombstones: %w", err)
	}
	return int(n), nil
}

func (ts tombstoneStore) CountByDeletionTime(ctx context.Context, userID int64, deletedAt time.Time) (int, error) {
	var n int64
	err := ts.s.conn(ctx).Model(&deletedTaskModel{}).
		Where("user_id = ? AND deletion_time = ?", userID, deletedAt.UTC()).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count tombstones: %w", err)
	}
	return int(n), nil
}
