package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PicardRaphael/todo-api-go/pkg/apperr"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Sup3r-secret")
	require.NoError(t, err)
	assert.NotEqual(t, "Sup3r-secret", hash)

	assert.True(t, VerifyPassword(hash, "Sup3r-secret"))
	assert.False(t, VerifyPassword(hash, "sup3r-secret"))
	assert.False(t, VerifyPassword("not-a-hash", "Sup3r-secret"))
}

func TestCheckPasswordStrength(t *testing.T) {
	assert.NoError(t, CheckPasswordStrength("Sup3r-secret"))

	err := CheckPasswordStrength("abc")
	var f *apperr.Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, "WEAK_PASSWORD", f.Kind.Code)
	assert.Equal(t, 400, f.Status())

	// Every unmet rule is reported, in policy order.
	assert.Equal(t, []string{
		"at least 8 characters",
		"at least one uppercase letter",
		"at least one digit",
		"at least one special character",
	}, f.Context["missing_requirements"])
}

func TestCheckPasswordStrengthSingleMiss(t *testing.T) {
	err := CheckPasswordStrength("Sup3rsecret")
	var f *apperr.Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, []string{"at least one special character"}, f.Context["missing_requirements"])
}
