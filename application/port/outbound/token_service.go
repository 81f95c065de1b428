package outbound

// TokenClaims is the identity snapshot embedded in signed tokens. No
// role or permission data travels in tokens.
type TokenClaims struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
}

// TokenService signs and verifies access and refresh tokens. Both kinds
// carry the same claims payload but differ in lifetime and, optionally,
// signing secret.
type TokenService interface {
	SignAccessToken(claims TokenClaims) (string, error)
	SignRefreshToken(claims TokenClaims) (string, error)
	VerifyAccessToken(token string) (*TokenClaims, error)
	VerifyRefreshToken(token string) (*TokenClaims, error)
}
