package memory

import (
	"context"
	"sort"

	"github.com/phrazzld/tasktrack-api/internal/domain"
)

type subscriptionStore struct{ s *Store }

func (ss subscriptionStore) Create(_ context.Context, sub *domain.Subscription) error {
	return ss.s.with(func(st *state) error {
		if err := st.requireUser(sub.UserID); err != nil {
			return err
		}
		sub.ID = st.nextSubscriptionID
		st.nextSubscriptionID++
		st.subscriptions[sub.ID] = *sub
		return nil
	})
}

func (ss subscriptionStore) DeleteByUser(_ context.Context, userID int64) (int64, error) {
	var n int64
	err := ss.s.with(func(st *state) error {
		for id, sub := range st.subscriptions {
			if sub.UserID == userID {
				delete(st.subscriptions, id)
				n++
			}
		}
		return nil
	})
	return n, err
}

func (ss subscriptionStore) ListByFrequency(_ context.Context, frequency domain.Frequency) ([]domain.Subscription, error) {
	out := []domain.Subscription{}
	err := ss.s.with(func(st *state) error {
		for _, sub := range st.subscriptions {
			if sub.Frequency == frequency {
				out = append(out, sub)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}
