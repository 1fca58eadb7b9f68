package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const hashCost = 12

// Hash returns a bcrypt hash of the password.
func Hash(password string) (string, error) {
	sum, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(sum), nil
}

// Verify reports whether the password matches the stored hash. A malformed
// hash verifies as false rather than surfacing an error to callers.
func Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
