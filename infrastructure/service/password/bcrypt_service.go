package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptPasswordService hashes candidate passwords combined with a
// server-wide pepper. bcrypt's comparison operates on hash material, so
// mismatches cost the same as matches.
type BcryptPasswordService struct {
	pepper string
	cost   int
}

func NewBcryptPasswordService(pepper string, cost int) *BcryptPasswordService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordService{
		pepper: pepper,
		cost:   cost,
	}
}

func (s *BcryptPasswordService) HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password+s.pepper), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashedPassword), nil
}

// VerifyPassword returns (false, nil) on a plain mismatch. A non-nil
// error means the stored hash itself is unusable.
func (s *BcryptPasswordService) VerifyPassword(password, hash string) (bool, error) {
	if hash == "" || password == "" {
		return false, nil
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password+s.pepper))
	if err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return false, nil
		}
		return false, fmt.Errorf("failed to compare passwords: %w", err)
	}

	return true, nil
}
