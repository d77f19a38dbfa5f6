// Package cryptox hashes and verifies user passwords.
//
// Hashes are bcrypt ($2a$/$2b$), the same format PostgreSQL's pgcrypto
// produces with crypt(password, gen_salt('bf')), so a user created by either
// side can authenticate against both the Postgres and the SQLite stores.
package cryptox

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost matches gen_salt('bf') in pgcrypto.
const DefaultCost = 6

var ErrEmptyPassword = errors.New("empty password")

// HashPassword returns the bcrypt hash of password at the given cost.
// A cost below bcrypt.MinCost falls back to DefaultCost.
func HashPassword(password []byte, cost int) (string, error) {
	if len(password) == 0 {
		return "", ErrEmptyPassword
	}
	if cost < bcrypt.MinCost {
		cost = DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword(password, cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// VerifyPassword reports whether candidate matches hash. A mismatch is not an
// error; a malformed hash is.
func VerifyPassword(candidate []byte, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), candidate)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}

// Wipe zeroes b. Used on password buffers read from a terminal.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
