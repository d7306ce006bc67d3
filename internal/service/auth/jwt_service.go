package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService verifies bearer tokens issued by the external identity provider.
type JWTService interface {
	// ValidateToken checks signature and time claims and extracts the user.
	// Returns ErrExpiredToken, ErrTokenNotYetValid, ErrInvalidSubject or ErrInvalidToken.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the verified subset of a token's claims.
type Claims struct {
	// UserID is parsed from the standard sub claim.
	UserID    uuid.UUID
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
