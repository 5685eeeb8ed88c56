package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

type userStore struct{ s *Store }

func (us userStore) Create(ctx context.Context, user *domain.User) error {
	m := userModel{Username: user.Username, Email: user.Email, PasswordHash: user.PasswordHash}
	if err := us.s.conn(ctx).Create(&m).Error; err != nil {
		err = mapError(err, store.ErrUserNotFound)
		if errors.Is(err, store.ErrDuplicate) {
			return store.ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = m.ID
	return nil
}

func (us userStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return us.first(ctx, "id = ?", id)
}

func (us userStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return us.first(ctx, "username = ?", username)
}

func (us userStore) first(ctx context.Context, cond string, arg any) (*domain.User, error) {
	var m userModel
	if err := us.s.conn(ctx).First(&m, cond, arg).Error; err != nil {
		return nil, mapError(err, store.ErrUserNotFound)
	}
	u := m.toDomain()
	return &u, nil
}

func (us userStore) Exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	if err := us.s.conn(ctx).Model(&userModel{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return n > 0, nil
}
