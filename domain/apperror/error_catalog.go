package apperror

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode string

const (
	// Authentication errors (1xxx). Rejections are deliberately
	// undifferentiated: a caller holding a stale token must not learn
	// whether it expired, was revoked, or never existed.
	ErrCodeInvalidCredentials ErrorCode = "AUTH_1001"
	ErrCodeInvalidToken       ErrorCode = "AUTH_1002"
	ErrCodeUserNotFound       ErrorCode = "AUTH_1003"

	// External store errors (5xxx)
	ErrCodeStoreFault ErrorCode = "STORE_5001"

	// Email delivery errors (6xxx)
	ErrCodeDeliveryFault ErrorCode = "EMAIL_6001"
)

// AppError represents a structured application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is makes two AppErrors match on code, so sentinel values below work
// with errors.Is even across wrapping.
func (e *AppError) Is(target error) bool {
	var appErr *AppError
	if !errors.As(target, &appErr) {
		return false
	}
	return e.Code == appErr.Code
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Sentinel domain rejections. These are expected outcomes, never faults.
var (
	ErrInvalidCredentials = New(ErrCodeInvalidCredentials, "invalid username or password")
	ErrInvalidToken       = New(ErrCodeInvalidToken, "invalid refresh token")
	ErrUserNotFound       = New(ErrCodeUserNotFound, "user not found")
)

// StoreFault wraps an external store failure (database or session cache
// unavailable, timed out). Kept distinct from domain rejections so the
// transport layer can answer 503 instead of 401.
func StoreFault(op string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeStoreFault,
		Message: fmt.Sprintf("store fault during %s", op),
		Cause:   cause,
	}
}

// DeliveryFault wraps a verification-email send failure. The identity the
// email was about stays persisted; only the delivery is reported failed.
func DeliveryFault(cause error) *AppError {
	return &AppError{
		Code:    ErrCodeDeliveryFault,
		Message: "verification email delivery failed",
		Cause:   cause,
	}
}

func IsStoreFault(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeStoreFault
}

func IsDeliveryFault(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeDeliveryFault
}
