package outbound

import "context"

// EmailService delivers the verification email. Fire-and-forget from the
// credential subsystem's perspective: a delivery fault never rolls back
// the identity that already persisted the token.
type EmailService interface {
	SendVerificationEmail(ctx context.Context, email, token, username string) error
}
