package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/animeflix/auth-service/application/port/outbound"
	"github.com/animeflix/auth-service/domain/entity"
)

const uniqueViolation = "23505"

type UserRepositoryAdapter struct {
	db *sql.DB
}

func NewUserRepositoryAdapter(db *sql.DB) outbound.UserRepository {
	return &UserRepositoryAdapter{db: db}
}

func (r *UserRepositoryAdapter) FindByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (*entity.User, error) {
	if usernameOrEmail == "" {
		return nil, outbound.ErrUserNotFound
	}

	query := `
		SELECT id, username, email, first_name, last_name, password,
		       email_verification_token, email_verified, created_at, updated_at
		FROM users
		WHERE username = $1 OR email = $1
		LIMIT 1
	`

	var user entity.User
	var verificationToken sql.NullString
	err := r.db.QueryRowContext(ctx, query, usernameOrEmail).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Password,
		&verificationToken,
		&user.EmailVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, outbound.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if verificationToken.Valid {
		user.EmailVerificationToken = &verificationToken.String
	}

	return &user, nil
}

func (r *UserRepositoryAdapter) Create(ctx context.Context, user *entity.User) error {
	if user == nil {
		return fmt.Errorf("user cannot be nil")
	}

	query := `
		INSERT INTO users (id, username, email, first_name, last_name, password,
		                   email_verification_token, email_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Password,
		nullableToken(user.EmailVerificationToken),
		user.EmailVerified,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return outbound.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *UserRepositoryAdapter) Update(ctx context.Context, user *entity.User) error {
	if user == nil {
		return fmt.Errorf("user cannot be nil")
	}

	query := `
		UPDATE users
		SET password = $2,
		    email_verification_token = $3,
		    email_verified = $4,
		    updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Password,
		nullableToken(user.EmailVerificationToken),
		user.EmailVerified,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return outbound.ErrUserNotFound
	}

	return nil
}

func nullableToken(token *string) sql.NullString {
	if token == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *token, Valid: true}
}
