package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/animeflix/auth-service/application/port/outbound"
	"github.com/animeflix/auth-service/infrastructure/http/response"
)

type contextKey string

// AuthClaimsKey is the context key under which verified access-token
// claims are stored for downstream handlers.
const AuthClaimsKey contextKey = "auth_claims"

type AuthMiddleware struct {
	tokenService outbound.TokenService
}

func NewAuthMiddleware(tokenService outbound.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenService: tokenService}
}

// RequireAuth verifies the bearer access token and injects its claims
// into the request context.
func (m *AuthMiddleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			response.Unauthorized(w, "Authorization header required")
			return
		}

		claims, err := m.tokenService.VerifyAccessToken(token)
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), AuthClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// ClaimsFromContext returns the verified claims placed by RequireAuth.
func ClaimsFromContext(ctx context.Context) (*outbound.TokenClaims, bool) {
	claims, ok := ctx.Value(AuthClaimsKey).(*outbound.TokenClaims)
	return claims, ok
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
