package outbound

import (
	"context"
	"errors"

	"github.com/animeflix/auth-service/domain/entity"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

// UserRepository is the credential store. Lookups accept a username or an
// email address as the same logical key.
type UserRepository interface {
	FindByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (*entity.User, error)
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
}
