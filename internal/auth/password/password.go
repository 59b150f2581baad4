package password

import (
	"errors"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

const (
	minLength = 6
	maxLength = 100
)

var (
	ErrTooShort = errors.New("password must be at least 6 characters long")
	ErrTooLong  = errors.New("password must not exceed 100 characters")
	ErrTooWeak  = errors.New("password must contain at least one uppercase letter, one lowercase letter, and one number")
)

// Hash returns the bcrypt hash used for stored credentials.
func Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(truncate(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify checks whether a password matches the stored bcrypt hash.
func Verify(password, encoded string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encoded), truncate(password)) == nil
}

// truncate caps input at the 72-byte bcrypt block limit. The policy allows up
// to 100 characters, so longer passwords are compared on their first 72 bytes.
func truncate(password string) []byte {
	raw := []byte(password)
	if len(raw) > 72 {
		raw = raw[:72]
	}
	return raw
}

// Validate enforces the account password policy: length bounds plus at least
// one uppercase letter, one lowercase letter and one digit.
func Validate(password string) error {
	if len(password) < minLength {
		return ErrTooShort
	}
	if len(password) > maxLength {
		return ErrTooLong
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return ErrTooWeak
	}
	return nil
}
