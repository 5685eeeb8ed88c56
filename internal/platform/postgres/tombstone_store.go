package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// PostgresTombstoneStore implements the store.TombstoneStore interface
// on the deleted_tasks table.
type PostgresTombstoneStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTombstoneStore creates a new PostgreSQL implementation of the TombstoneStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTombstoneStore(db store.DBTX, logger *slog.Logger) *PostgresTombstoneStore {
	if db == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTombstoneStore{
		db:     db,
		logger: logger.With(slog.String("component", "tombstone_store")),
	}
}

var _ store.TombstoneStore = (*PostgresTombstoneStore)(nil)

// Create implements store.TombstoneStore.Create. Tombstones are inserted in
// argument order so ids increase along the slice.
func (s *PostgresTombstoneStore) Create(ctx context.Context, tombstones ...*domain.DeletedTask) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO deleted_tasks
			(user_id, title, description, start_date, due_date, completion_date, status, deletion_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	for _, t := range tombstones {
		err := s.db.QueryRowContext(
			ctx,
			query,
			t.UserID,
			t.Title,
			t.Description,
			t.StartDate,
			t.DueDate,
			t.CompletionDate,
			string(t.Status),
			t.DeletionTime,
		).Scan(&t.ID)
		if err != nil {
			log.Error("failed to create tombstone",
				slog.String("error", err.Error()),
				slog.Int64("user_id", t.UserID))
			return MapError(err)
		}
	}

	log.Debug("tombstones created", slog.Int("count", len(tombstones)))
	return nil
}

// Latest implements store.TombstoneStore.Latest. The selected row is locked
// until the surrounding transaction ends, so two restores cannot consume the
// same tombstone.
func (s *PostgresTombstoneStore) Latest(ctx context.Context, userID int64) (*domain.DeletedTask, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, title, description, start_date, due_date, completion_date, status, deletion_time
		FROM deleted_tasks
		WHERE user_id = $1
		ORDER BY deletion_time DESC, id DESC
		LIMIT 1
		FOR UPDATE
	`
	var t domain.DeletedTask
	var status string
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.Description,
		&t.StartDate,
		&t.DueDate,
		&t.CompletionDate,
		&status,
		&t.DeletionTime,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("no tombstone to restore", slog.Int64("user_id", userID))
			return nil, store.ErrTombstoneNotFound
		}
		log.Error("failed to get latest tombstone",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return nil, MapError(err)
	}

	t.Status = domain.TaskStatus(status)
	t.DeletionTime = t.DeletionTime.UTC()
	return &t, nil
}

// Delete implements store.TombstoneStore.Delete.
func (s *PostgresTombstoneStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM deleted_tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete tombstone",
			slog.String("error", err.Error()),
			slog.Int64("tombstone_id", id))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrTombstoneNotFound)
}

// CountByUser implements store.TombstoneStore.CountByUser.
func (s *PostgresTombstoneStore) CountByUser(ctx context.Context, userID int64) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM deleted_tasks WHERE user_id = $1`, userID)
}

// CountByDeletionTime implements store.TombstoneStore.CountByDeletionTime.
func (s *PostgresTombstoneStore) CountByDeletionTime(
	ctx context.Context,
	userID int64,
	deletedAt time.Time,
) (int, error) {
	return s.count(ctx,
		`SELECT COUNT(*) FROM deleted_tasks WHERE user_id = $1 AND deletion_time = $2`,
		userID, deletedAt.UTC())
}

func (s *PostgresTombstoneStore) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count tombstones",
			slog.String("error", err.Error()))
		return 0, fmt.Errorf("failed to count tombstones: %w", MapError(err))
	}
	return n, nil
}
