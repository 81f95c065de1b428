package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/animeflix/auth-service/application/port/inbound"
	"github.com/animeflix/auth-service/application/port/outbound"
	"github.com/animeflix/auth-service/domain/apperror"
	"github.com/animeflix/auth-service/domain/valueobject"
	"github.com/animeflix/auth-service/infrastructure/http/middleware"
	"github.com/animeflix/auth-service/infrastructure/http/response"
)

type stubAuthUseCase struct {
	loginRes   *inbound.LoginResponse
	loginErr   error
	refreshRes *valueobject.TokenPair
	refreshErr error
	revokeErr  error

	revokedUsername string
}

func (s *stubAuthUseCase) Login(ctx context.Context, req inbound.LoginRequest) (*inbound.LoginResponse, error) {
	return s.loginRes, s.loginErr
}

func (s *stubAuthUseCase) Refresh(ctx context.Context, refreshToken string) (*valueobject.TokenPair, error) {
	return s.refreshRes, s.refreshErr
}

func (s *stubAuthUseCase) Revoke(ctx context.Context, username string) error {
	s.revokedUsername = username
	return s.revokeErr
}

func newAuthHandler(stub *stubAuthUseCase) *AuthHandler {
	return NewAuthHandler(stub, false, 3600, 604800)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func refreshCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == refreshCookieName {
			return c
		}
	}
	t.Fatal("refresh_token cookie not set")
	return nil
}

func TestLoginHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		stub := &stubAuthUseCase{
			loginRes: &inbound.LoginResponse{
				TokenPair:        valueobject.TokenPair{AccessToken: "access-1", RefreshToken: "refresh-1"},
				ExpiresIn:        3600,
				RefreshExpiresIn: 604800,
				Username:         "john",
			},
		}
		h := newAuthHandler(stub)

		body := bytes.NewBufferString(`{"username":"john","password":"secret123"}`)
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", body)
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec)
		require.True(t, env.Status)

		data := env.Data.(map[string]interface{})
		require.Equal(t, "access-1", data["access_token"])
		require.Equal(t, float64(3600), data["expires_in"])

		cookie := refreshCookie(t, rec)
		require.Equal(t, "refresh-1", cookie.Value)
		require.True(t, cookie.HttpOnly)
		require.Equal(t, 604800, cookie.MaxAge)
		require.Equal(t, "/v1/auth", cookie.Path)
	})

	t.Run("InvalidCredentials", func(t *testing.T) {
		stub := &stubAuthUseCase{loginErr: apperror.ErrInvalidCredentials}
		h := newAuthHandler(stub)

		body := bytes.NewBufferString(`{"username":"john","password":"wrong"}`)
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", body)
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.False(t, decodeEnvelope(t, rec).Status)
	})

	t.Run("MissingFields", func(t *testing.T) {
		h := newAuthHandler(&stubAuthUseCase{})

		body := bytes.NewBufferString(`{"username":"john"}`)
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", body)
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		h := newAuthHandler(&stubAuthUseCase{})

		req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("StoreFault", func(t *testing.T) {
		stub := &stubAuthUseCase{loginErr: apperror.StoreFault("session cache write", context.DeadlineExceeded)}
		h := newAuthHandler(stub)

		body := bytes.NewBufferString(`{"username":"john","password":"secret123"}`)
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", body)
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestRefreshHandler(t *testing.T) {
	t.Run("FromCookie", func(t *testing.T) {
		stub := &stubAuthUseCase{
			refreshRes: &valueobject.TokenPair{AccessToken: "access-2", RefreshToken: "refresh-2"},
		}
		h := newAuthHandler(stub)

		req := httptest.NewRequest(http.MethodPost, "/v1/auth/refresh", nil)
		req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: "refresh-1"})
		rec := httptest.NewRecorder()
		h.Refresh(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "refresh-2", refreshCookie(t, rec).Value)

		data := decodeEnvelope(t, rec).Data.(map[string]interface{})
		require.Equal(t, "access-2", data["access_token"])
	})

	t.Run("FromBody", func(t *testing.T) {
		stub := &stubAuthUseCase{
			refreshRes: &valueobject.TokenPair{AccessToken: "access-2", RefreshToken: "refresh-2"},
		}
		h := newAuthHandler(stub)

		body := bytes.NewBufferString(`{"refresh_token":"refresh-1"}`)
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/refresh", body)
		rec := httptest.NewRecorder()
		h.Refresh(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("MissingToken", func(t *testing.T) {
		h := newAuthHandler(&stubAuthUseCase{})

		req := httptest.NewRequest(http.MethodPost, "/v1/auth/refresh", nil)
		rec := httptest.NewRecorder()
		h.Refresh(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("RejectedTokenClearsCookie", func(t *testing.T) {
		stub := &stubAuthUseCase{refreshErr: apperror.ErrInvalidToken}
		h := newAuthHandler(stub)

		req := httptest.NewRequest(http.MethodPost, "/v1/auth/refresh", nil)
		req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: "stale-token"})
		rec := httptest.NewRecorder()
		h.Refresh(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		cookie := refreshCookie(t, rec)
		require.Empty(t, cookie.Value)
		require.Negative(t, cookie.MaxAge)
	})

	t.Run("StoreFaultKeepsCookie", func(t *testing.T) {
		stub := &stubAuthUseCase{refreshErr: apperror.StoreFault("session cache read", context.DeadlineExceeded)}
		h := newAuthHandler(stub)

		req := httptest.NewRequest(http.MethodPost, "/v1/auth/refresh", nil)
		req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: "refresh-1"})
		rec := httptest.NewRecorder()
		h.Refresh(rec, req)

		// A cache outage is not a rejection; the client keeps its token
		// and retries later.
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		require.Empty(t, rec.Result().Cookies())
	})
}

func TestLogoutHandler(t *testing.T) {
	t.Run("RevokesSession", func(t *testing.T) {
		stub := &stubAuthUseCase{}
		h := newAuthHandler(stub)

		req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
		ctx := context.WithValue(req.Context(), middleware.AuthClaimsKey, &outbound.TokenClaims{Username: "john"})
		rec := httptest.NewRecorder()
		h.Logout(rec, req.WithContext(ctx))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "john", stub.revokedUsername)
		require.Negative(t, refreshCookie(t, rec).MaxAge)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		h := newAuthHandler(&stubAuthUseCase{})

		req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
		rec := httptest.NewRecorder()
		h.Logout(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestMeHandler(t *testing.T) {
	h := newAuthHandler(&stubAuthUseCase{})

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	ctx := context.WithValue(req.Context(), middleware.AuthClaimsKey, &outbound.TokenClaims{
		Username:  "john",
		Email:     "john@x.com",
		FirstName: "John",
		LastName:  "Doe",
	})
	rec := httptest.NewRecorder()
	h.Me(rec, req.WithContext(ctx))

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec).Data.(map[string]interface{})
	require.Equal(t, "john", data["username"])
	require.Equal(t, "john@x.com", data["email"])
}
