package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/animeflix/auth-service/application/port/inbound"
	"github.com/animeflix/auth-service/application/port/outbound"
	"github.com/animeflix/auth-service/domain/apperror"
	"github.com/animeflix/auth-service/infrastructure/http/response"
	"github.com/animeflix/auth-service/infrastructure/http/validator"
)

type UserHandler struct {
	userUseCase inbound.UserUseCase
}

func NewUserHandler(userUseCase inbound.UserUseCase) *UserHandler {
	return &UserHandler{userUseCase: userUseCase}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req inbound.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if !validator.ValidateUsername(req.Username) {
		response.UnprocessableEntity(w, "Invalid username")
		return
	}
	if !validator.ValidateEmail(req.Email) {
		response.UnprocessableEntity(w, "Invalid email format")
		return
	}
	if !validator.ValidatePassword(req.Password) {
		response.UnprocessableEntity(w, "Password must be at least 8 characters")
		return
	}

	res, err := h.userUseCase.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, outbound.ErrUserAlreadyExists):
			response.Conflict(w, "Username or email already taken")
		case apperror.IsDeliveryFault(err):
			// The account row exists but the verification email never
			// left; the client sees a creation failure either way.
			response.BadRequest(w, "User creation failed")
		case apperror.IsStoreFault(err):
			response.ServiceUnavailable(w, "Service temporarily unavailable")
		default:
			response.BadRequest(w, "User creation failed")
		}
		return
	}

	response.Success(w, http.StatusCreated, "User created successfully", res)
}

func (h *UserHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	username := r.URL.Query().Get("username")
	if token == "" || username == "" {
		response.BadRequest(w, "token and username are required")
		return
	}

	verified, err := h.userUseCase.ConsumeVerificationToken(r.Context(), username, token)
	if err != nil {
		response.ServiceUnavailable(w, "Token verification failed")
		return
	}
	if !verified {
		response.BadRequest(w, "Token verification failed")
		return
	}

	response.Success(w, http.StatusOK, "Email verified successfully", nil)
}

type resendVerificationRequest struct {
	Username string `json:"username"`
}

// ResendVerification re-arms the single-use verification token and sends
// a fresh email. The previous token stops working once replaced.
func (h *UserHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req resendVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if !validator.ValidateRequired(req.Username) {
		response.UnprocessableEntity(w, "Username is required")
		return
	}

	if err := h.userUseCase.ResendVerificationEmail(r.Context(), req.Username); err != nil {
		switch {
		case errors.Is(err, apperror.ErrUserNotFound):
			// Do not reveal which identities exist.
			response.Success(w, http.StatusOK, "Verification email sent", nil)
		case apperror.IsDeliveryFault(err):
			response.Error(w, http.StatusBadGateway, "Failed to send verification email")
		default:
			response.ServiceUnavailable(w, "Service temporarily unavailable")
		}
		return
	}

	response.Success(w, http.StatusOK, "Verification email sent", nil)
}
