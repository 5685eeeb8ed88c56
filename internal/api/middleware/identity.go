package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/phrazzld/tasktrack-api/internal/api/shared"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
)

// UserIDHeader carries the acting user's id.
const UserIDHeader = "X-User-Id"

// Client-facing identity errors.
const (
	MsgAuthRequired  = "Authentication required via X-User-Id header"
	MsgInvalidHeader = "Invalid X-User-Id header"
	MsgInvalidToken  = "Invalid token"
	MsgUnknownUser   = "User does not exist"
)

// TokenValidator validates bearer tokens issued at login.
type TokenValidator interface {
	ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error)
}

// UserChecker reports whether a user account exists.
type UserChecker interface {
	Exists(ctx context.Context, userID int64) (bool, error)
}

// IdentityMiddleware resolves the acting user of a request.
type IdentityMiddleware struct {
	tokens TokenValidator
	users  UserChecker
}

// NewIdentityMiddleware creates an IdentityMiddleware. tokens may be nil, in
// which case only the X-User-Id header is accepted.
func NewIdentityMiddleware(tokens TokenValidator, users UserChecker) *IdentityMiddleware {
	return &IdentityMiddleware{tokens: tokens, users: users}
}

// Identify reads X-User-Id, or a Bearer token when the header is absent, and
// stores the user id in the request context.
func (m *IdentityMiddleware) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(UserIDHeader)
		if header == "" {
			m.identifyFromToken(next, w, r)
			return
		}

		userID, err := strconv.ParseInt(strings.TrimSpace(header), 10, 64)
		if err != nil || userID <= 0 {
			shared.RespondWithError(w, r, http.StatusBadRequest, MsgInvalidHeader)
			return
		}

		next.ServeHTTP(w, r.WithContext(shared.WithUserID(r.Context(), userID)))
	})
}

func (m *IdentityMiddleware) identifyFromToken(next http.Handler, w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || m.tokens == nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, MsgAuthRequired)
		return
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || parts[0] != "Bearer" {
		shared.RespondWithError(w, r, http.StatusUnauthorized, MsgAuthRequired)
		return
	}

	claims, err := m.tokens.ValidateToken(r.Context(), parts[1])
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrExpiredToken) ||
			errors.Is(err, auth.ErrTokenNotYetValid) {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, MsgInvalidToken, err,
				shared.WithElevatedLogLevel())
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
		return
	}

	next.ServeHTTP(w, r.WithContext(shared.WithUserID(r.Context(), claims.UserID)))
}

// RequireExistingUser rejects requests whose identified user has no account.
// It must run after Identify.
func (m *IdentityMiddleware) RequireExistingUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := shared.GetUserID(r.Context())
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, MsgAuthRequired)
			return
		}

		exists, err := m.users.Exists(r.Context(), userID)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
				"An unexpected error occurred", err)
			return
		}
		if !exists {
			logger.FromContext(r.Context()).Debug("request from unknown user", "user_id", userID)
			shared.RespondWithError(w, r, http.StatusUnauthorized, MsgUnknownUser)
			return
		}

		next.ServeHTTP(w, r)
	})
}
