package passhash

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hash derives a one-way digest from plaintext. bcrypt generates a fresh
// salt per call and embeds it in the digest, so hashing the same plaintext
// twice yields different digests.
func Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password failed: %w", err)
	}
	return string(digest), nil
}

// Verify recomputes the hash with the salt embedded in digest and compares
// in constant time.
func Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
