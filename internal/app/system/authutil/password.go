// internal/app/system/authutil/password.go
package authutil

import (
	"errors"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt ignores anything past 72 bytes
	BcryptCost        = 12
)

var (
	ErrPasswordTooShort = errors.New("Le mot de passe doit contenir au moins 8 caractères.")
	ErrPasswordTooLong  = errors.New("Le mot de passe ne peut pas dépasser 72 octets.")
	ErrPasswordCommon   = errors.New("Ce mot de passe est trop courant.")
)

var commonPasswords = map[string]bool{
	"12345678":    true,
	"123456789":   true,
	"1234567890":  true,
	"password":    true,
	"password1":   true,
	"motdepasse":  true,
	"azertyuiop":  true,
	"qwertyuiop":  true,
	"iloveyou":    true,
	"sunshine":    true,
	"football":    true,
	"bienvenue":   true,
	"changeme":    true,
	"linkedin":    true,
	"strataleads": true,
}

// ValidatePassword checks length and rejects a few well-known passwords.
// It guards the seeded admin password; sign-in never validates.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	if commonPasswords[strings.ToLower(password)] {
		return ErrPasswordCommon
	}
	return nil
}

// HashPassword hashes password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a plain-text password with a bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

var (
	dummyOnce sync.Once
	dummyHash string
)

// DummyHash returns a real bcrypt hash to compare against when the account
// does not exist, so the response time does not reveal which login ids
// are registered.
func DummyHash() string {
	dummyOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte("strataleads-no-such-account"), BcryptCost)
		if err == nil {
			dummyHash = string(h)
		}
	})
	return dummyHash
}
