package entity

import (
	"time"
)

// User is the identity record the credential subsystem operates on.
// Username and email are each globally unique and interchangeable as a
// lookup key.
type User struct {
	ID                     string    `json:"id"`
	Username               string    `json:"username"`
	Email                  string    `json:"email"`
	FirstName              string    `json:"first_name"`
	LastName               string    `json:"last_name"`
	Password               string    `json:"-"`
	EmailVerificationToken *string   `json:"-"`
	EmailVerified          bool      `json:"email_verified"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

func NewUser(id, username, email, firstName, lastName, passwordHash string) *User {
	now := time.Now()
	return &User{
		ID:        id,
		Username:  username,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Password:  passwordHash,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetVerificationToken arms a fresh single-use verification token.
func (u *User) SetVerificationToken(token string) {
	u.EmailVerificationToken = &token
	u.UpdatedAt = time.Now()
}

// ConsumeVerificationToken compares presented against the stored token.
// On exact match it marks the user verified and clears the token so it
// cannot be replayed; on mismatch or an already-cleared token it returns
// false without mutating anything. The caller persists the mutated user.
func (u *User) ConsumeVerificationToken(presented string) bool {
	if u.EmailVerificationToken == nil || presented == "" {
		return false
	}
	if *u.EmailVerificationToken != presented {
		return false
	}
	u.EmailVerificationToken = nil
	u.EmailVerified = true
	u.UpdatedAt = time.Now()
	return true
}
