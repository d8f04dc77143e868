package auth

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 8

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares password against a bcrypt hash. A mismatch is
// reported as ErrInvalidCredentials.
func CheckPassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrInvalidCredentials
	}
	return err
}

var dummyHash = sync.OnceValue(func() string {
	hash, _ := bcrypt.GenerateFromPassword([]byte("philatopia-unknown-account"), bcrypt.DefaultCost)
	return string(hash)
})

// RejectUnknown spends one bcrypt comparison on a fixed hash and returns
// ErrInvalidCredentials, so an unknown account costs the same as a wrong
// password.
func RejectUnknown(password string) error {
	bcrypt.CompareHashAndPassword([]byte(dummyHash()), []byte(password))
	return ErrInvalidCredentials
}

// DummyCost reports the bcrypt cost RejectUnknown compares at.
func DummyCost() (int, error) {
	return bcrypt.Cost([]byte(dummyHash()))
}
