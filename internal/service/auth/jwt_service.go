package auth

import (
	"context"
	"time"
)

// JWTService issues and validates the bearer tokens returned by login.
type JWTService interface {
	// GenerateToken creates a signed token for userID.
	GenerateToken(ctx context.Context, userID int64) (string, error)

	// ValidateToken checks the signature and time claims of tokenString and
	// returns its claims.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the validated content of a token.
type Claims struct {
	UserID    int64
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
