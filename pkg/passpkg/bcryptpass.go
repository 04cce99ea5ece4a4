// Package passpkg provides password hashing and checking.
package passpkg

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// digest maps a password of any length to 44 bytes, below the 72 byte input limit of bcrypt.
func digest(password string) []byte {
	sum := sha256.Sum256([]byte(password))

	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])

	return out
}

// Hash returns the bcrypt hash of the password. Passwords of any length are accepted.
func Hash(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword(digest(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashedPassword), nil
}

// Check checks if the provided password matches the hashed one.
func Check(password, hashedPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), digest(password))
}
