package auth

import "golang.org/x/crypto/bcrypt"

// PasswordVerifier checks a login password against the stored credential
// hash. It is an interface so the account service can be tested without
// paying bcrypt's cost on every test case.
type PasswordVerifier interface {
	// Compare returns nil when password matches hashedPassword, and an
	// error (typically a mismatch) otherwise.
	Compare(hashedPassword, password string) error
}

// BcryptVerifier is the production PasswordVerifier, backed by bcrypt.
type BcryptVerifier struct{}

// NewBcryptVerifier creates a new BcryptVerifier.
func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{}
}

// Compare implements PasswordVerifier.
func (v *BcryptVerifier) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
