package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/tasktrack-api/internal/store"
)

// Store is the PostgreSQL unit of work. A Store built by NewStore runs
// queries on the pool; the Store handed to a RunInTx callback runs them on
// the transaction.
type Store struct {
	db     *sql.DB
	tx     *sql.Tx
	logger *slog.Logger

	users         *PostgresUserStore
	tasks         *PostgresTaskStore
	tombstones    *PostgresTombstoneStore
	subscriptions *PostgresSubscriptionStore
}

var _ store.Store = (*Store)(nil)

// NewStore creates a Store on db.
func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	if db == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return newStore(db, nil, db, logger)
}

func newStore(db *sql.DB, tx *sql.Tx, q store.DBTX, logger *slog.Logger) *Store {
	return &Store{
		db:            db,
		tx:            tx,
		logger:        logger,
		users:         NewPostgresUserStore(q, logger),
		tasks:         NewPostgresTaskStore(q, logger),
		tombstones:    NewPostgresTombstoneStore(q, logger),
		subscriptions: NewPostgresSubscriptionStore(q, logger),
	}
}

// Users implements store.Store.
func (s *Store) Users() store.UserStore { return s.users }

// Tasks implements store.Store.
func (s *Store) Tasks() store.TaskStore { return s.tasks }

// Tombstones implements store.Store.
func (s *Store) Tombstones() store.TombstoneStore { return s.tombstones }

// Subscriptions implements store.Store.
func (s *Store) Subscriptions() store.SubscriptionStore { return s.subscriptions }

// RunInTx implements store.Store.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	if s.tx != nil {
		return fn(ctx, s)
	}
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, newStore(s.db, tx, tx, s.logger))
	})
}
