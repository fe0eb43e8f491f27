package identity

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	dErrors "rollcall/pkg/domain-errors"
)

// hashPassword creates a bcrypt hash of the provided password.
func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", dErrors.New(dErrors.CodeBadRequest, "password exceeds maximum length")
		}
		return "", err
	}
	return string(hashed), nil
}

// verifyPassword checks a plaintext password against a bcrypt hash.
func verifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
