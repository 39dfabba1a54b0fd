package auth

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/PicardRaphael/todo-api-go/pkg/apperr"
)

const (
	// MinPasswordLength is the shortest password accepted at registration.
	MinPasswordLength = 8

	bcryptCost = bcrypt.DefaultCost
)

// HashPassword derives a bcrypt hash for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored hash.
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CheckPasswordStrength validates password against the registration
// policy. On failure it returns a WEAK_PASSWORD carrying every unmet
// rule, in policy order, so clients can show the full checklist at
// once.
func CheckPasswordStrength(password string) error {
	var missing []string
	if len(password) < MinPasswordLength {
		missing = append(missing, "at least 8 characters")
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	if !upper {
		missing = append(missing, "at least one uppercase letter")
	}
	if !lower {
		missing = append(missing, "at least one lowercase letter")
	}
	if !digit {
		missing = append(missing, "at least one digit")
	}
	if !special {
		missing = append(missing, "at least one special character")
	}

	if len(missing) > 0 {
		return apperr.NewWeakPassword(len(password), missing)
	}
	return nil
}
