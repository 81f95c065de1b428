package outbound

// PasswordService hashes and verifies passwords. Implementations mix in a
// server-wide pepper before hashing; comparison happens on hash material,
// never on raw passwords.
type PasswordService interface {
	HashPassword(password string) (string, error)
	// VerifyPassword returns (false, nil) on a plain mismatch and a
	// non-nil error only for internal failures such as a malformed hash.
	VerifyPassword(password, hash string) (bool, error)
}
