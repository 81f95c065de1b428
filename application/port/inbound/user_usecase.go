package inbound

import "context"

type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type RegisterResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UserUseCase covers registration, password verification and the
// single-use email-verification token lifecycle.
type UserUseCase interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	// VerifyPassword normalizes unknown identities and internal hash
	// errors to false; unauthenticated callers never see a distinct
	// not-found outcome.
	VerifyPassword(ctx context.Context, usernameOrEmail, password string) bool
	// GenerateVerificationToken mints and persists a fresh single-use
	// token for the identity, replacing any previous one.
	GenerateVerificationToken(ctx context.Context, usernameOrEmail string) (string, error)
	// ResendVerificationEmail re-arms the token and delivers it to the
	// identity's registered email address.
	ResendVerificationEmail(ctx context.Context, usernameOrEmail string) error
	// ConsumeVerificationToken returns true exactly once per token.
	// Persistence failures propagate as faults, not as a silent false.
	ConsumeVerificationToken(ctx context.Context, usernameOrEmail, token string) (bool, error)
}
