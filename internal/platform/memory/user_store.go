package memory

import (
	"context"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

type userStore struct{ s *Store }

func (us userStore) Create(_ context.Context, user *domain.User) error {
	return us.s.with(func(st *state) error {
		for _, u := range st.users {
			if u.Username == user.Username || u.Email == user.Email {
				return store.ErrUserExists
			}
		}
		user.ID = st.nextUserID
		st.nextUserID++
		st.users[user.ID] = *user
		return nil
	})
}

func (us userStore) GetByID(_ context.Context, id int64) (*domain.User, error) {
	return us.find(func(u domain.User) bool { return u.ID == id })
}

func (us userStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return us.find(func(u domain.User) bool { return u.Username == username })
}

func (us userStore) find(match func(domain.User) bool) (*domain.User, error) {
	var out *domain.User
	err := us.s.with(func(st *state) error {
		for _, u := range st.users {
			if match(u) {
				found := u
				out = &found
				return nil
			}
		}
		return store.ErrUserNotFound
	})
	return out, err
}

func (us userStore) Exists(_ context.Context, id int64) (bool, error) {
	var ok bool
	err := us.s.with(func(st *state) error {
		_, ok = st.users[id]
		return nil
	})
	return ok, err
}
