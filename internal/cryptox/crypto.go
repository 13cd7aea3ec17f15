// Package cryptox wraps password hashing for user accounts.
package cryptox

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor applied to new hashes.
const PasswordCost = 10

// hashFn is a seam for tests that need a failing hasher.
var hashFn = bcrypt.GenerateFromPassword

// HashPassword returns the bcrypt hash of password.
func HashPassword(password []byte) (string, error) {
	h, err := hashFn(password, PasswordCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CheckPassword reports whether password matches hash. A malformed hash is
// treated as a mismatch.
func CheckPassword(hash string, password []byte) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), password)
	return err == nil
}

// IsPasswordTooLong reports whether password exceeds bcrypt's 72 byte input limit.
func IsPasswordTooLong(password []byte) bool {
	_, err := bcrypt.GenerateFromPassword(password, bcrypt.MinCost)
	return errors.Is(err, bcrypt.ErrPasswordTooLong)
}
