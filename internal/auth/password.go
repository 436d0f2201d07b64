package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the default cost for sentinel hashes.
const bcryptCost = 10

// HashSentinel generates a bcrypt hash suitable for admin.sentinel_hash.
func HashSentinel(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash sentinel: %w", err)
	}
	return string(hash), nil
}

func compareSentinel(hash []byte, candidate string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(candidate)) == nil
}
