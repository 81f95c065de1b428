package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/animeflix/auth-service/application/port/outbound"
	"github.com/animeflix/auth-service/domain/apperror"
	"github.com/animeflix/auth-service/domain/valueobject"
)

// TokenIssuer mints an access/refresh pair for a claims payload and
// publishes the refresh token into the session cache.
type TokenIssuer struct {
	tokenService    outbound.TokenService
	sessionCache    outbound.SessionCache
	refreshTokenTTL time.Duration
}

func NewTokenIssuer(
	tokenService outbound.TokenService,
	sessionCache outbound.SessionCache,
	refreshTokenTTL time.Duration,
) *TokenIssuer {
	return &TokenIssuer{
		tokenService:    tokenService,
		sessionCache:    sessionCache,
		refreshTokenTTL: refreshTokenTTL,
	}
}

// Issue signs claims into a token pair and stores the refresh token under
// the username key, unconditionally overwriting any previous value.
// Replacement is the sole revocation mechanism for old refresh tokens:
// there is no blacklist, the superseded token simply stops matching the
// stored value. Exactly one cache write per call; a failed write after
// minting surfaces as a store fault and does not roll back minting.
func (i *TokenIssuer) Issue(ctx context.Context, claims outbound.TokenClaims) (*valueobject.TokenPair, error) {
	accessToken, err := i.tokenService.SignAccessToken(claims)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken, err := i.tokenService.SignRefreshToken(claims)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	if err := i.sessionCache.Set(ctx, claims.Username, refreshToken, i.refreshTokenTTL); err != nil {
		return nil, apperror.StoreFault("session cache write", err)
	}

	return valueobject.NewTokenPair(accessToken, refreshToken), nil
}
