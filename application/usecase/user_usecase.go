package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/animeflix/auth-service/application/port/inbound"
	"github.com/animeflix/auth-service/application/port/outbound"
	"github.com/animeflix/auth-service/domain/apperror"
	"github.com/animeflix/auth-service/domain/entity"
	"github.com/animeflix/auth-service/infrastructure/service/logger"
)

type UserUseCase struct {
	userRepository  outbound.UserRepository
	passwordService outbound.PasswordService
	emailService    outbound.EmailService
	logger          logger.Logger
}

func NewUserUseCase(
	userRepo outbound.UserRepository,
	passwordService outbound.PasswordService,
	emailService outbound.EmailService,
	log logger.Logger,
) inbound.UserUseCase {
	return &UserUseCase{
		userRepository:  userRepo,
		passwordService: passwordService,
		emailService:    emailService,
		logger:          log,
	}
}

// Register persists a new identity with a peppered password hash and an
// armed verification token, then sends the verification email. The email
// is sent after the identity is durably stored; a delivery fault is
// reported as a creation failure but does not roll back the stored row.
func (uc *UserUseCase) Register(ctx context.Context, req inbound.RegisterRequest) (*inbound.RegisterResponse, error) {
	if err := validateRegisterRequest(req); err != nil {
		return nil, err
	}

	hash, err := uc.passwordService.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := entity.NewUser(uuid.NewString(), req.Username, req.Email, req.FirstName, req.LastName, hash)
	token := newVerificationToken()
	user.SetVerificationToken(token)

	if err := uc.userRepository.Create(ctx, user); err != nil {
		if errors.Is(err, outbound.ErrUserAlreadyExists) {
			return nil, err
		}
		uc.logger.Error(ctx, "Failed to create user", err, map[string]interface{}{
			"username": req.Username,
		})
		return nil, apperror.StoreFault("user create", err)
	}
	uc.logger.Info(ctx, "Successfully created user", map[string]interface{}{
		"username": user.Username,
	})

	if err := uc.emailService.SendVerificationEmail(ctx, user.Email, token, user.Username); err != nil {
		uc.logger.Error(ctx, "Error sending verification email", err, map[string]interface{}{
			"username": user.Username,
		})
		return nil, apperror.DeliveryFault(err)
	}

	return &inbound.RegisterResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

// VerifyPassword reports whether the candidate password matches the
// stored hash for the identity. Unknown identities and internal errors
// both come back as false; unauthenticated callers never learn which.
func (uc *UserUseCase) VerifyPassword(ctx context.Context, usernameOrEmail, password string) bool {
	user, err := uc.userRepository.FindByUsernameOrEmail(ctx, usernameOrEmail)
	if err != nil {
		if !errors.Is(err, outbound.ErrUserNotFound) {
			uc.logger.Error(ctx, "Error while verifying password", err, map[string]interface{}{
				"username": usernameOrEmail,
			})
		}
		return false
	}

	valid, err := uc.passwordService.VerifyPassword(password, user.Password)
	if err != nil {
		uc.logger.Error(ctx, "Error while verifying password", err, map[string]interface{}{
			"username": user.Username,
		})
		return false
	}
	return valid
}

// GenerateVerificationToken mints a fresh single-use token for the
// identity and persists it, replacing any previous token.
func (uc *UserUseCase) GenerateVerificationToken(ctx context.Context, usernameOrEmail string) (string, error) {
	user, err := uc.userRepository.FindByUsernameOrEmail(ctx, usernameOrEmail)
	if err != nil {
		if errors.Is(err, outbound.ErrUserNotFound) {
			return "", apperror.ErrUserNotFound
		}
		return "", apperror.StoreFault("user lookup", err)
	}

	token := newVerificationToken()
	user.SetVerificationToken(token)

	if err := uc.userRepository.Update(ctx, user); err != nil {
		uc.logger.Error(ctx, "Failed to store verification token", err, map[string]interface{}{
			"username": user.Username,
		})
		return "", apperror.StoreFault("user update", err)
	}
	return token, nil
}

// ResendVerificationEmail re-arms the verification token and delivers it
// to the identity's registered address. The superseded token stops
// matching as soon as the new one is persisted.
func (uc *UserUseCase) ResendVerificationEmail(ctx context.Context, usernameOrEmail string) error {
	user, err := uc.userRepository.FindByUsernameOrEmail(ctx, usernameOrEmail)
	if err != nil {
		if errors.Is(err, outbound.ErrUserNotFound) {
			return apperror.ErrUserNotFound
		}
		return apperror.StoreFault("user lookup", err)
	}

	token := newVerificationToken()
	user.SetVerificationToken(token)
	if err := uc.userRepository.Update(ctx, user); err != nil {
		return apperror.StoreFault("user update", err)
	}

	if err := uc.emailService.SendVerificationEmail(ctx, user.Email, token, user.Username); err != nil {
		uc.logger.Error(ctx, "Error sending verification email", err, map[string]interface{}{
			"username": user.Username,
		})
		return apperror.DeliveryFault(err)
	}
	return nil
}

// ConsumeVerificationToken validates a presented verification token.
// True exactly once: a successful consume clears the stored token before
// persisting, so a replay returns false. A persistence failure after a
// match propagates as a fault rather than a silent false.
func (uc *UserUseCase) ConsumeVerificationToken(ctx context.Context, usernameOrEmail, token string) (bool, error) {
	user, err := uc.userRepository.FindByUsernameOrEmail(ctx, usernameOrEmail)
	if err != nil {
		if errors.Is(err, outbound.ErrUserNotFound) {
			return false, nil
		}
		return false, apperror.StoreFault("user lookup", err)
	}

	if !user.ConsumeVerificationToken(token) {
		logger.LogSecurityEvent(ctx, uc.logger, "verification_token_rejected", "MEDIUM", map[string]interface{}{
			"username": user.Username,
		})
		return false, nil
	}

	if err := uc.userRepository.Update(ctx, user); err != nil {
		uc.logger.Error(ctx, "Error while verifying token", err, map[string]interface{}{
			"username": user.Username,
		})
		return false, apperror.StoreFault("user update", err)
	}

	logger.LogAuthEvent(ctx, uc.logger, "email_verified", user.Username, true, nil)
	return true, nil
}

func newVerificationToken() string {
	return uuid.NewString()
}

func validateRegisterRequest(req inbound.RegisterRequest) error {
	switch {
	case req.Username == "":
		return fmt.Errorf("username is required")
	case req.Email == "":
		return fmt.Errorf("email is required")
	case req.Password == "":
		return fmt.Errorf("password is required")
	}
	return nil
}
