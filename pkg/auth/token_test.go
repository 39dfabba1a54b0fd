package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PicardRaphael/todo-api-go/pkg/apperr"
)

func testService(now *time.Time) *Service {
	return NewService(Config{Secret: "test-secret"}, WithClock(func() time.Time { return *now }))
}

func failureCode(t *testing.T, err error) string {
	t.Helper()
	var f *apperr.Failure
	require.True(t, errors.As(err, &f), "expected a catalog failure, got %v", err)
	return f.Kind.Code
}

func TestIssueAndAuthenticate(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := testService(&now)

	raw, issued, err := svc.IssueAccessToken(42, []string{ScopeTodosRead, ScopeTodosWrite})
	require.NoError(t, err)
	assert.Equal(t, int64(42), issued.SubjectID)
	assert.NotEmpty(t, issued.JTI)

	tok, err := svc.Authenticate(raw, ScopeTodosRead)
	require.NoError(t, err)
	assert.Equal(t, int64(42), tok.SubjectID)
	assert.Equal(t, TypeAccess, tok.TokenType)
	assert.Equal(t, []string{ScopeTodosRead, ScopeTodosWrite}, tok.Scopes)
}

// Validity is a function of the injected clock alone: a token issued
// and checked at a clock far from wall time still authenticates.
func TestValidationUsesInjectedClock(t *testing.T) {
	now := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := testService(&now)

	raw, _, err := svc.IssueAccessToken(7, DefaultScopes())
	require.NoError(t, err)

	_, err = svc.Authenticate(raw, ScopeTodosRead)
	assert.NoError(t, err)
}

func TestAuthenticateMissingToken(t *testing.T) {
	now := time.Now()
	svc := testService(&now)

	_, err := svc.Authenticate("")
	assert.Equal(t, "MISSING_TOKEN", failureCode(t, err))

	var f *apperr.Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, "Bearer", f.Headers()["WWW-Authenticate"])
	assert.Equal(t, 401, f.Status())
}

func TestAuthenticateExpiredToken(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := testService(&now)

	raw, _, err := svc.IssueAccessToken(7, DefaultScopes())
	require.NoError(t, err)

	now = now.Add(31 * time.Minute)
	_, err = svc.Authenticate(raw, ScopeTodosRead)
	assert.Equal(t, "EXPIRED_TOKEN", failureCode(t, err))
}

// Expiry must win over any signature problem: a stale token presented
// after a key rotation still reports EXPIRED_TOKEN, never INVALID_TOKEN.
func TestExpiredBeatsInvalidSignature(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewService(Config{Secret: "old-secret"}, WithClock(func() time.Time { return now }))

	raw, _, err := issuer.IssueAccessToken(7, DefaultScopes())
	require.NoError(t, err)

	later := now.Add(2 * time.Hour)
	verifier := NewService(Config{Secret: "new-secret"}, WithClock(func() time.Time { return later }))

	_, err = verifier.Authenticate(raw, ScopeTodosRead)
	assert.Equal(t, "EXPIRED_TOKEN", failureCode(t, err))
}

func TestAuthenticateTamperedToken(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := testService(&now)

	other := NewService(Config{Secret: "other-secret"}, WithClock(func() time.Time { return now }))
	raw, _, err := other.IssueAccessToken(7, DefaultScopes())
	require.NoError(t, err)

	_, err = svc.Authenticate(raw)
	assert.Equal(t, "INVALID_TOKEN", failureCode(t, err))
}

func TestAuthenticateGarbageToken(t *testing.T) {
	now := time.Now()
	svc := testService(&now)

	_, err := svc.Authenticate("not.a.jwt")
	assert.Equal(t, "INVALID_TOKEN", failureCode(t, err))
}

// A valid token lacking a required scope is an authorization failure,
// not a token failure.
func TestAuthenticateScopeMiss(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := testService(&now)

	raw, _, err := svc.IssueAccessToken(7, []string{ScopeTodosRead})
	require.NoError(t, err)

	_, err = svc.Authenticate(raw, ScopeTodosDelete)
	assert.Equal(t, "ACCESS_DENIED", failureCode(t, err))

	var f *apperr.Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, 403, f.Status())
}

func TestAdminScopeImpliesAll(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := testService(&now)

	raw, _, err := svc.IssueAccessToken(1, []string{ScopeAdmin})
	require.NoError(t, err)

	_, err = svc.Authenticate(raw, ScopeTodosDelete, ScopeUsersWrite)
	assert.NoError(t, err)
}

func TestRefreshTokenRejectedAsAccess(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := testService(&now)

	raw, _, err := svc.IssueRefreshToken(7)
	require.NoError(t, err)

	_, err = svc.Authenticate(raw)
	assert.Equal(t, "INVALID_TOKEN", failureCode(t, err))

	tok, err := svc.Validate(raw, TypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, TypeRefresh, tok.TokenType)
}

func TestClockSkewLeeway(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(Config{Secret: "test-secret", ClockSkew: 30 * time.Second},
		WithClock(func() time.Time { return now }))

	raw, _, err := svc.IssueAccessToken(7, DefaultScopes())
	require.NoError(t, err)

	// Just past exp but inside the allowed skew.
	now = now.Add(30*time.Minute + 10*time.Second)
	_, err = svc.Authenticate(raw, ScopeTodosRead)
	assert.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = svc.Authenticate(raw, ScopeTodosRead)
	assert.Equal(t, "EXPIRED_TOKEN", failureCode(t, err))
}

func TestHasScopes(t *testing.T) {
	assert.True(t, HasScopes(nil, nil))
	assert.True(t, HasScopes([]string{ScopeTodosRead}, []string{ScopeTodosRead}))
	assert.False(t, HasScopes([]string{ScopeTodosRead}, []string{ScopeTodosWrite}))
	assert.False(t, HasScopes(nil, []string{ScopeTodosRead}))
	assert.True(t, HasScopes([]string{ScopeAdmin}, []string{ScopeUsersWrite, ScopeTodosDelete}))
}
