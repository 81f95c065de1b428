package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/animeflix/auth-service/application/port/inbound"
	"github.com/animeflix/auth-service/application/port/outbound"
	"github.com/animeflix/auth-service/domain/apperror"
	"github.com/animeflix/auth-service/domain/entity"
	"github.com/animeflix/auth-service/domain/valueobject"
	"github.com/animeflix/auth-service/infrastructure/service/logger"
)

type AuthUseCase struct {
	userRepository  outbound.UserRepository
	sessionCache    outbound.SessionCache
	tokenService    outbound.TokenService
	passwordService outbound.PasswordService
	issuer          *TokenIssuer
	logger          logger.Logger
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

func NewAuthUseCase(
	userRepo outbound.UserRepository,
	sessionCache outbound.SessionCache,
	tokenService outbound.TokenService,
	passwordService outbound.PasswordService,
	log logger.Logger,
	accessTokenTTL time.Duration,
	refreshTokenTTL time.Duration,
) inbound.AuthUseCase {
	return &AuthUseCase{
		userRepository:  userRepo,
		sessionCache:    sessionCache,
		tokenService:    tokenService,
		passwordService: passwordService,
		issuer:          NewTokenIssuer(tokenService, sessionCache, refreshTokenTTL),
		logger:          log,
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
	}
}

func (uc *AuthUseCase) Login(ctx context.Context, req inbound.LoginRequest) (*inbound.LoginResponse, error) {
	if req.UsernameOrEmail == "" || req.Password == "" {
		return nil, apperror.ErrInvalidCredentials
	}

	user, err := uc.userRepository.FindByUsernameOrEmail(ctx, req.UsernameOrEmail)
	if err != nil {
		if errors.Is(err, outbound.ErrUserNotFound) {
			logger.LogAuthEvent(ctx, uc.logger, "login_failed_user_not_found", req.UsernameOrEmail, false, nil)
			return nil, apperror.ErrInvalidCredentials
		}
		uc.logger.Error(ctx, "Failed to find user", err, map[string]interface{}{
			"username": req.UsernameOrEmail,
		})
		return nil, apperror.StoreFault("user lookup", err)
	}

	valid, err := uc.passwordService.VerifyPassword(req.Password, user.Password)
	if err != nil {
		// Malformed stored hash and friends count as a failed
		// verification, never as a fault visible to the caller.
		uc.logger.Error(ctx, "Password verification error", err, map[string]interface{}{
			"username": user.Username,
		})
		return nil, apperror.ErrInvalidCredentials
	}
	if !valid {
		logger.LogAuthEvent(ctx, uc.logger, "login_failed_invalid_password", user.Username, false, nil)
		return nil, apperror.ErrInvalidCredentials
	}

	pair, err := uc.issuer.Issue(ctx, claimsFromUser(user))
	if err != nil {
		uc.logger.Error(ctx, "Failed to issue token pair", err, map[string]interface{}{
			"username": user.Username,
		})
		return nil, err
	}

	logger.LogAuthEvent(ctx, uc.logger, "login_successful", user.Username, true, nil)

	return &inbound.LoginResponse{
		TokenPair:        *pair,
		ExpiresIn:        int(uc.accessTokenTTL.Seconds()),
		RefreshExpiresIn: int(uc.refreshTokenTTL.Seconds()),
		Username:         user.Username,
		Email:            user.Email,
	}, nil
}

// Refresh walks Received -> Verified -> Looked-Up -> {Rotated | Rejected}.
// The cache lookup and the overwrite inside Issue are two separate calls
// with no atomic check-and-set between them; two concurrent refreshes of
// the same token can both rotate, and the later write wins. At most one of
// the two issued refresh tokens stays usable afterwards.
func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*valueobject.TokenPair, error) {
	if refreshToken == "" {
		return nil, apperror.ErrInvalidToken
	}

	claims, err := uc.tokenService.VerifyRefreshToken(refreshToken)
	if err != nil {
		logger.LogSecurityEvent(ctx, uc.logger, "refresh_token_rejected", "MEDIUM", map[string]interface{}{
			"reason": "signature_or_expiry",
		})
		return nil, apperror.ErrInvalidToken
	}

	stored, found, err := uc.sessionCache.Get(ctx, claims.Username)
	if err != nil {
		uc.logger.Error(ctx, "Failed to read session cache", err, map[string]interface{}{
			"username": claims.Username,
		})
		return nil, apperror.StoreFault("session cache read", err)
	}
	if !found || stored != refreshToken {
		// Reuse after rotation, or a session superseded by a newer
		// login. Indistinguishable from any other rejection on purpose.
		logger.LogSecurityEvent(ctx, uc.logger, "refresh_token_superseded", "HIGH", map[string]interface{}{
			"username": claims.Username,
		})
		return nil, apperror.ErrInvalidToken
	}

	// Re-sign the claims carried by the verified token. Identity
	// attributes changed since issuance propagate forward unchanged.
	pair, err := uc.issuer.Issue(ctx, *claims)
	if err != nil {
		uc.logger.Error(ctx, "Failed to rotate token pair", err, map[string]interface{}{
			"username": claims.Username,
		})
		return nil, err
	}

	logger.LogAuthEvent(ctx, uc.logger, "token_refresh_successful", claims.Username, true, nil)
	return pair, nil
}

// Revoke deletes the stored refresh token for username. Deleting an
// absent key is not an error.
func (uc *AuthUseCase) Revoke(ctx context.Context, username string) error {
	if err := uc.sessionCache.Delete(ctx, username); err != nil {
		uc.logger.Error(ctx, "Failed to delete session", err, map[string]interface{}{
			"username": username,
		})
		return apperror.StoreFault("session cache delete", err)
	}
	logger.LogAuthEvent(ctx, uc.logger, "session_revoked", username, true, nil)
	return nil
}

func claimsFromUser(user *entity.User) outbound.TokenClaims {
	return outbound.TokenClaims{
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}
