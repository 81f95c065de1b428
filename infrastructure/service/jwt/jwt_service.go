package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/animeflix/auth-service/application/port/outbound"
	"github.com/animeflix/auth-service/infrastructure/config"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims is the wire shape of the identity snapshot inside both token
// kinds. Field names follow the original public token format.
type Claims struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	jwt.RegisteredClaims
}

// JWTService signs access and refresh tokens with HS256. Each token kind
// has its own secret; deployments that keep the original shared-secret
// behavior simply configure the same value for both.
type JWTService struct {
	accessSecret    []byte
	refreshSecret   []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

func NewJWTService(cfg *config.Config) (*JWTService, error) {
	if cfg.AccessTokenSecret == "" || cfg.RefreshTokenSecret == "" {
		return nil, fmt.Errorf("token secrets must not be empty")
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return nil, fmt.Errorf("token TTLs must be positive")
	}
	return &JWTService{
		accessSecret:    []byte(cfg.AccessTokenSecret),
		refreshSecret:   []byte(cfg.RefreshTokenSecret),
		accessTokenTTL:  cfg.AccessTokenTTL,
		refreshTokenTTL: cfg.RefreshTokenTTL,
	}, nil
}

func (s *JWTService) SignAccessToken(claims outbound.TokenClaims) (string, error) {
	return s.sign(claims, s.accessSecret, s.accessTokenTTL)
}

func (s *JWTService) SignRefreshToken(claims outbound.TokenClaims) (string, error) {
	return s.sign(claims, s.refreshSecret, s.refreshTokenTTL)
}

func (s *JWTService) VerifyAccessToken(token string) (*outbound.TokenClaims, error) {
	return s.verify(token, s.accessSecret)
}

func (s *JWTService) VerifyRefreshToken(token string) (*outbound.TokenClaims, error) {
	return s.verify(token, s.refreshSecret)
}

func (s *JWTService) sign(claims outbound.TokenClaims, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	tokenClaims := Claims{
		Email:     claims.Email,
		Username:  claims.Username,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			// The jti keeps two tokens minted within the same second
			// from colliding; rotation depends on byte-distinct values.
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *JWTService) verify(tokenString string, secret []byte) (*outbound.TokenClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Username == "" {
		return nil, ErrInvalidToken
	}

	return &outbound.TokenClaims{
		Email:     claims.Email,
		Username:  claims.Username,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
	}, nil
}
