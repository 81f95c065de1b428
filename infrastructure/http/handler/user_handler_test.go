package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/animeflix/auth-service/application/port/inbound"
	"github.com/animeflix/auth-service/application/port/outbound"
	"github.com/animeflix/auth-service/domain/apperror"
)

type stubUserUseCase struct {
	registerRes *inbound.RegisterResponse
	registerErr error
	consumeOK   bool
	consumeErr  error
	resendErr   error
}

func (s *stubUserUseCase) Register(ctx context.Context, req inbound.RegisterRequest) (*inbound.RegisterResponse, error) {
	return s.registerRes, s.registerErr
}

func (s *stubUserUseCase) VerifyPassword(ctx context.Context, usernameOrEmail, password string) bool {
	return false
}

func (s *stubUserUseCase) GenerateVerificationToken(ctx context.Context, usernameOrEmail string) (string, error) {
	return "", nil
}

func (s *stubUserUseCase) ResendVerificationEmail(ctx context.Context, usernameOrEmail string) error {
	return s.resendErr
}

func (s *stubUserUseCase) ConsumeVerificationToken(ctx context.Context, usernameOrEmail, token string) (bool, error) {
	return s.consumeOK, s.consumeErr
}

const registerBody = `{"username":"alice","email":"alice@x.com","password":"longenough"}`

func TestRegisterHandler(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		h := NewUserHandler(&stubUserUseCase{
			registerRes: &inbound.RegisterResponse{ID: "id-1", Username: "alice"},
		})

		req := httptest.NewRequest(http.MethodPost, "/v1/users", bytes.NewBufferString(registerBody))
		rec := httptest.NewRecorder()
		h.Register(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		env := decodeEnvelope(t, rec)
		require.True(t, env.Status)
		require.Equal(t, "alice", env.Data.(map[string]interface{})["username"])
	})

	t.Run("Duplicate", func(t *testing.T) {
		h := NewUserHandler(&stubUserUseCase{registerErr: outbound.ErrUserAlreadyExists})

		req := httptest.NewRequest(http.MethodPost, "/v1/users", bytes.NewBufferString(registerBody))
		rec := httptest.NewRecorder()
		h.Register(rec, req)

		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("DeliveryFault", func(t *testing.T) {
		h := NewUserHandler(&stubUserUseCase{
			registerErr: apperror.DeliveryFault(fmt.Errorf("smtp down")),
		})

		req := httptest.NewRequest(http.MethodPost, "/v1/users", bytes.NewBufferString(registerBody))
		rec := httptest.NewRecorder()
		h.Register(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("StoreFault", func(t *testing.T) {
		h := NewUserHandler(&stubUserUseCase{
			registerErr: apperror.StoreFault("user create", fmt.Errorf("db down")),
		})

		req := httptest.NewRequest(http.MethodPost, "/v1/users", bytes.NewBufferString(registerBody))
		rec := httptest.NewRecorder()
		h.Register(rec, req)

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("Validation", func(t *testing.T) {
		h := NewUserHandler(&stubUserUseCase{})

		cases := map[string]string{
			"ShortUsername": `{"username":"ab","email":"alice@x.com","password":"longenough"}`,
			"BadEmail":      `{"username":"alice","email":"not-an-email","password":"longenough"}`,
			"ShortPassword": `{"username":"alice","email":"alice@x.com","password":"short"}`,
		}
		for name, body := range cases {
			t.Run(name, func(t *testing.T) {
				req := httptest.NewRequest(http.MethodPost, "/v1/users", bytes.NewBufferString(body))
				rec := httptest.NewRecorder()
				h.Register(rec, req)
				require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			})
		}
	})
}

func TestVerifyEmailHandler(t *testing.T) {
	t.Run("Verified", func(t *testing.T) {
		h := NewUserHandler(&stubUserUseCase{consumeOK: true})

		req := httptest.NewRequest(http.MethodGet, "/v1/users/verify-email?token=tok-1&username=alice", nil)
		rec := httptest.NewRecorder()
		h.VerifyEmail(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("RejectedToken", func(t *testing.T) {
		h := NewUserHandler(&stubUserUseCase{consumeOK: false})

		req := httptest.NewRequest(http.MethodGet, "/v1/users/verify-email?token=tok-1&username=alice", nil)
		rec := httptest.NewRecorder()
		h.VerifyEmail(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("PersistenceFault", func(t *testing.T) {
		h := NewUserHandler(&stubUserUseCase{
			consumeErr: apperror.StoreFault("user update", fmt.Errorf("db down")),
		})

		req := httptest.NewRequest(http.MethodGet, "/v1/users/verify-email?token=tok-1&username=alice", nil)
		rec := httptest.NewRecorder()
		h.VerifyEmail(rec, req)

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("MissingParams", func(t *testing.T) {
		h := NewUserHandler(&stubUserUseCase{})

		req := httptest.NewRequest(http.MethodGet, "/v1/users/verify-email?token=tok-1", nil)
		rec := httptest.NewRecorder()
		h.VerifyEmail(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestResendVerificationHandler(t *testing.T) {
	t.Run("Sent", func(t *testing.T) {
		h := NewUserHandler(&stubUserUseCase{})

		body := bytes.NewBufferString(`{"username":"alice"}`)
		req := httptest.NewRequest(http.MethodPost, "/v1/users/resend-verification", body)
		rec := httptest.NewRecorder()
		h.ResendVerification(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("UnknownUserLooksSent", func(t *testing.T) {
		h := NewUserHandler(&stubUserUseCase{resendErr: apperror.ErrUserNotFound})

		body := bytes.NewBufferString(`{"username":"nobody"}`)
		req := httptest.NewRequest(http.MethodPost, "/v1/users/resend-verification", body)
		rec := httptest.NewRecorder()
		h.ResendVerification(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("DeliveryFault", func(t *testing.T) {
		h := NewUserHandler(&stubUserUseCase{
			resendErr: apperror.DeliveryFault(fmt.Errorf("smtp down")),
		})

		body := bytes.NewBufferString(`{"username":"alice"}`)
		req := httptest.NewRequest(http.MethodPost, "/v1/users/resend-verification", body)
		rec := httptest.NewRecorder()
		h.ResendVerification(rec, req)

		require.Equal(t, http.StatusBadGateway, rec.Code)
	})
}
