// Package auth implements password hashing and JWT access tokens.
package auth

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/WilliamTrivedi/Blood-Donation/internal/platform/errors"
)

const minPasswordLen = 8

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperrors.InternalError("failed to hash password", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether the plaintext matches the stored hash.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePasswordStrength enforces the minimum password policy: at least
// eight characters with upper, lower, and digit.
func ValidatePasswordStrength(password string) error {
	if len(password) < minPasswordLen {
		return apperrors.ValidationError("password must be at least 8 characters")
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return apperrors.ValidationError("password must contain upper case, lower case, and a digit")
	}
	return nil
}
