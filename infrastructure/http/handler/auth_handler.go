package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/animeflix/auth-service/application/port/inbound"
	"github.com/animeflix/auth-service/domain/apperror"
	"github.com/animeflix/auth-service/infrastructure/http/middleware"
	"github.com/animeflix/auth-service/infrastructure/http/response"
	"github.com/animeflix/auth-service/infrastructure/http/validator"
)

const refreshCookieName = "refresh_token"

type AuthHandler struct {
	authUseCase      inbound.AuthUseCase
	secureCookies    bool
	accessExpiresIn  int
	refreshExpiresIn int
}

func NewAuthHandler(authUseCase inbound.AuthUseCase, secureCookies bool, accessExpiresIn, refreshExpiresIn int) *AuthHandler {
	return &AuthHandler{
		authUseCase:      authUseCase,
		secureCookies:    secureCookies,
		accessExpiresIn:  accessExpiresIn,
		refreshExpiresIn: refreshExpiresIn,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if !validator.ValidateRequired(req.Username) || !validator.ValidateRequired(req.Password) {
		response.UnprocessableEntity(w, "Username and password are required")
		return
	}

	res, err := h.authUseCase.Login(r.Context(), inbound.LoginRequest{
		UsernameOrEmail: req.Username,
		Password:        req.Password,
	})
	if err != nil {
		h.writeAuthError(w, err)
		return
	}

	h.setTokenCookies(w, res.TokenPair.RefreshToken)
	response.Success(w, http.StatusOK, "Logged in successfully", loginResponse{
		AccessToken: res.TokenPair.AccessToken,
		ExpiresIn:   res.ExpiresIn,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token := h.presentedRefreshToken(r)
	if token == "" {
		response.Unauthorized(w, "Invalid or expired refresh token")
		return
	}

	pair, err := h.authUseCase.Refresh(r.Context(), token)
	if err != nil {
		if errors.Is(err, apperror.ErrInvalidToken) {
			h.clearTokenCookies(w)
		}
		h.writeAuthError(w, err)
		return
	}

	h.setTokenCookies(w, pair.RefreshToken)
	response.Success(w, http.StatusOK, "Refreshed token successfully", loginResponse{
		AccessToken: pair.AccessToken,
		ExpiresIn:   h.accessExpiresIn,
	})
}

// Logout clears the client-held token material and revokes the stored
// session for the authenticated identity.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	if err := h.authUseCase.Revoke(r.Context(), claims.Username); err != nil {
		response.ServiceUnavailable(w, "Failed to revoke session")
		return
	}

	h.clearTokenCookies(w)
	response.Success(w, http.StatusOK, "Logged out successfully", nil)
}

// Me echoes the claims of the verified access token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	response.Success(w, http.StatusOK, "success", map[string]string{
		"username":   claims.Username,
		"email":      claims.Email,
		"first_name": claims.FirstName,
		"last_name":  claims.LastName,
	})
}

func (h *AuthHandler) presentedRefreshToken(r *http.Request) string {
	if cookie, err := r.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
		return req.RefreshToken
	}
	return ""
}

func (h *AuthHandler) writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperror.ErrInvalidCredentials):
		response.Unauthorized(w, "Invalid username or password")
	case errors.Is(err, apperror.ErrInvalidToken):
		response.Unauthorized(w, "Invalid or expired refresh token")
	case apperror.IsStoreFault(err):
		response.ServiceUnavailable(w, "Service temporarily unavailable")
	default:
		response.InternalServerError(w, "Internal server error")
	}
}

func (h *AuthHandler) setTokenCookies(w http.ResponseWriter, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    refreshToken,
		Path:     "/v1/auth",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   h.refreshExpiresIn,
	})
}

func (h *AuthHandler) clearTokenCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/v1/auth",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
}
