package inbound

import (
	"context"

	"github.com/animeflix/auth-service/domain/valueobject"
)

type LoginRequest struct {
	UsernameOrEmail string `json:"username"`
	Password        string `json:"password"`
}

type LoginResponse struct {
	TokenPair        valueobject.TokenPair `json:"token_pair"`
	ExpiresIn        int                   `json:"expires_in"`
	RefreshExpiresIn int                   `json:"refresh_expires_in"`
	Username         string                `json:"username"`
	Email            string                `json:"email"`
}

// AuthUseCase exposes the credential lifecycle operations consumed by the
// transport layer.
type AuthUseCase interface {
	// Login verifies a password and issues a fresh token pair. Failed
	// lookups and failed password checks collapse to the same
	// undifferentiated rejection.
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	// Refresh rotates a presented refresh token. Every rejection branch
	// returns the same opaque invalid-token error; store faults stay
	// distinguishable.
	Refresh(ctx context.Context, refreshToken string) (*valueobject.TokenPair, error)
	// Revoke deletes the stored refresh token for username. Idempotent:
	// revoking an absent session is not an error. Whether logout calls
	// this is the transport layer's decision.
	Revoke(ctx context.Context, username string) error
}
