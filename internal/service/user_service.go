package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// UserExistenceCache caches positive user existence checks.
type UserExistenceCache interface {
	Get(ctx context.Context, userID int64) (exists, found bool, err error)
	Set(ctx context.Context, userID int64) error
}

// Passwords hashes new passwords and verifies presented ones.
type Passwords interface {
	auth.PasswordHasher
	auth.PasswordVerifier
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	UserID int64
	// Token is empty when no token service is configured.
	Token string
}

// UserService provides account operations.
type UserService interface {
	// Signup creates an account. Returns store.ErrUserExists when the
	// username or email is taken.
	Signup(ctx context.Context, creds domain.Credentials) (*domain.User, error)

	// Login checks the credentials. Missing fields are a validation error;
	// every mismatch is reported as auth.ErrInvalidCredentials.
	Login(ctx context.Context, creds domain.Credentials) (*LoginResult, error)

	// Exists reports whether userID has an account.
	Exists(ctx context.Context, userID int64) (bool, error)
}

// UserServiceOption configures a UserService.
type UserServiceOption func(*userServiceImpl)

// WithExistenceCache puts cache in front of the user store for Exists.
func WithExistenceCache(cache UserExistenceCache) UserServiceOption {
	return func(s *userServiceImpl) {
		s.cache = cache
	}
}

// WithTokenService makes Login issue a signed token.
func WithTokenService(jwtService auth.JWTService) UserServiceOption {
	return func(s *userServiceImpl) {
		s.jwtService = jwtService
	}
}

type userServiceImpl struct {
	userStore  store.UserStore
	passwords  Passwords
	jwtService auth.JWTService
	cache      UserExistenceCache
	logger     *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(
	userStore store.UserStore,
	passwords Passwords,
	log *slog.Logger,
	opts ...UserServiceOption,
) (UserService, error) {
	if userStore == nil {
		return nil, NewUserServiceError("create_service", "userStore cannot be nil", nil)
	}
	if passwords == nil {
		return nil, NewUserServiceError("create_service", "passwords cannot be nil", nil)
	}
	if log == nil {
		log = slog.Default()
	}

	svc := &userServiceImpl{
		userStore: userStore,
		passwords: passwords,
		logger:    log.With("component", "user_service"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Signup implements UserService.
func (s *userServiceImpl) Signup(ctx context.Context, creds domain.Credentials) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := creds.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.passwords.Hash(creds.Password)
	if err != nil {
		log.Error("failed to hash password", "username", creds.Username, "error", err)
		return nil, NewUserServiceError("signup", "failed to hash password", err)
	}

	user := &domain.User{
		Username:     creds.Username,
		Email:        creds.Email,
		PasswordHash: hash,
	}
	if err := s.userStore.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrUserExists) {
			log.Debug("attempted to create user with existing username or email",
				"username", creds.Username)
			return nil, err
		}
		log.Error("failed to save user to database", "username", creds.Username, "error", err)
		return nil, NewUserServiceError("signup", "failed to save user", err)
	}

	log.Info("user created", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login implements UserService.
func (s *userServiceImpl) Login(ctx context.Context, creds domain.Credentials) (*LoginResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := creds.Validate(); err != nil {
		return nil, err
	}

	user, err := s.userStore.GetByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login for unknown username", "username", creds.Username)
			return nil, auth.ErrInvalidCredentials
		}
		log.Error("failed to look up user", "username", creds.Username, "error", err)
		return nil, NewUserServiceError("login", "failed to look up user", err)
	}

	if user.Email != creds.Email {
		log.Debug("login email mismatch", "user_id", user.ID)
		return nil, auth.ErrInvalidCredentials
	}
	if err := s.passwords.Compare(user.PasswordHash, creds.Password); err != nil {
		log.Debug("login password mismatch", "user_id", user.ID)
		return nil, auth.ErrInvalidCredentials
	}

	result := &LoginResult{UserID: user.ID}
	if s.jwtService != nil {
		token, err := s.jwtService.GenerateToken(ctx, user.ID)
		if err != nil {
			log.Error("failed to generate token", "user_id", user.ID, "error", err)
			return nil, NewUserServiceError("login", "failed to generate token", err)
		}
		result.Token = token
	}

	log.Info("user logged in", "user_id", user.ID)
	return result, nil
}

// Exists implements UserService. Cache errors fall back to the store.
func (s *userServiceImpl) Exists(ctx context.Context, userID int64) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if userID <= 0 {
		return false, nil
	}

	if s.cache != nil {
		exists, found, err := s.cache.Get(ctx, userID)
		if err != nil {
			log.Warn("user existence cache lookup failed", "user_id", userID, "error", err)
		} else if found {
			return exists, nil
		}
	}

	exists, err := s.userStore.Exists(ctx, userID)
	if err != nil {
		log.Error("failed to check user existence", "user_id", userID, "error", err)
		return false, NewUserServiceError("exists", "failed to check user", err)
	}

	if exists && s.cache != nil {
		if err := s.cache.Set(ctx, userID); err != nil {
			log.Warn("failed to cache user existence", "user_id", userID, "error", err)
		}
	}
	return exists, nil
}
