package memory

import (
	"context"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

type tombstoneStore struct{ s *Store }

func (ts tombstoneStore) Create(_ context.Context, tombstones ...*domain.DeletedTask) error {
	return ts.s.with(func(st *state) error {
		for _, d := range tombstones {
			if err := st.requireUser(d.UserID); err != nil {
				return err
			}
		}
		for _, d := range tombstones {
			d.ID = st.nextTombstoneID
			st.nextTombstoneID++
			st.tombstones[d.ID] = d.Clone()
		}
		return nil
	})
}

func (ts tombstoneStore) Latest(_ context.Context, userID int64) (*domain.DeletedTask, error) {
	var latest *domain.DeletedTask
	err := ts.s.with(func(st *state) error {
		for _, d := range st.tombstones {
			if d.UserID != userID {
				continue
			}
			if latest == nil || d.After(*latest) {
				c := d.Clone()
				latest = &c
			}
		}
		if latest == nil {
			return store.ErrTombstoneNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return latest, nil
}

func (ts tombstoneStore) Delete(_ context.Context, id int64) error {
	return ts.s.with(func(st *state) error {
		if _, ok := st.tombstones[id]; !ok {
			return store.ErrTombstoneNotFound
		}
		delete(st.tombstones, id)
		return nil
	})
}

func (ts tombstoneStore) CountByUser(_ context.Context, userID int64) (int, error) {
	return ts.count(func(d domain.DeletedTask) bool { return d.UserID == userID })
}

func (ts tombstoneStore) CountByDeletionTime(_ context.Context, userID int64, deletedAt time.Time) (int, error) {
	return ts.count(func(d domain.DeletedTask) bool {
		return d.UserID == userID && d.DeletionTime.Equal(deletedAt)
	})
}

func (ts tombstoneStore) count(keep func(domain.DeletedTask) bool) (int, error) {
	n := 0
	err := ts.s.with(func(st *state) error {
		for _, d := range st.tombstones {
			if keep(d) {
				n++
			}
		}
		return nil
	})
	return n, err
}
