package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// state is the whole dataset. A transaction works on a clone and swaps it in
// on commit.
type state struct {
	nextUserID         int64
	nextTaskID         int64
	nextTombstoneID    int64
	nextSubscriptionID int64

	users         map[int64]domain.User
	tasks         map[int64]domain.Task
	tombstones    map[int64]domain.DeletedTask
	subscriptions map[int64]domain.Subscription
}

func newState() *state {
	return &state{
		nextUserID:         1,
		nextTaskID:         1,
		nextTombstoneID:    1,
		nextSubscriptionID: 1,
		users:              make(map[int64]domain.User),
		tasks:              make(map[int64]domain.Task),
		tombstones:         make(map[int64]domain.DeletedTask),
		subscriptions:      make(map[int64]domain.Subscription),
	}
}

func (st *state) clone() *state {
	out := &state{
		nextUserID:         st.nextUserID,
		nextTaskID:         st.nextTaskID,
		nextTombstoneID:    st.nextTombstoneID,
		nextSubscriptionID: st.nextSubscriptionID,
		users:              make(map[int64]domain.User, len(st.users)),
		tasks:              make(map[int64]domain.Task, len(st.tasks)),
		tombstones:         make(map[int64]domain.DeletedTask, len(st.tombstones)),
		subscriptions:      make(map[int64]domain.Subscription, len(st.subscriptions)),
	}
	for id, u := range st.users {
		out.users[id] = u
	}
	for id, t := range st.tasks {
		out.tasks[id] = t.Clone()
	}
	for id, d := range st.tombstones {
		out.tombstones[id] = d.Clone()
	}
	for id, s := range st.subscriptions {
		out.subscriptions[id] = s
	}
	return out
}

func (st *state) requireUser(userID int64) error {
	if _, ok := st.users[userID]; !ok {
		return fmt.Errorf("%w: user with ID %d not found", store.ErrInvalidEntity, userID)
	}
	return nil
}

// Store is an in-memory store.Store. A single mutex is held for each
// operation outside a transaction and for the whole of a RunInTx call, so
// units of work are serialized.
type Store struct {
	mu     *sync.Mutex
	st     *state
	inTx   bool
	logger *slog.Logger
}

var _ store.Store = (*Store)(nil)

// NewStore returns an empty Store.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		mu:     &sync.Mutex{},
		st:     newState(),
		logger: logger.With(slog.String("component", "memory_store")),
	}
}

// with runs fn against the current state, taking the lock unless the caller
// is already inside RunInTx.
func (s *Store) with(fn func(st *state) error) error {
	if !s.inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(s.st)
}

// Users implements store.Store.
func (s *Store) Users() store.UserStore { return userStore{s} }

// Tasks implements store.Store.
func (s *Store) Tasks() store.TaskStore { return taskStore{s} }

// Tombstones implements store.Store.
func (s *Store) Tombstones() store.TombstoneStore { return tombstoneStore{s} }

// Subscriptions implements store.Store.
func (s *Store) Subscriptions() store.SubscriptionStore { return subscriptionStore{s} }

// RunInTx implements store.Store. Changes made by fn become visible only if
// it returns nil; an error or panic discards them.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Store{mu: s.mu, st: s.st.clone(), inTx: true, logger: s.logger}
	if err := fn(ctx, tx); err != nil {
		s.logger.Debug("discarding in-memory transaction", slog.String("error", err.Error()))
		return err
	}
	s.st = tx.st
	return nil
}
