package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

var codePattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]+$`)

func TestCatalogIsWellFormed(t *testing.T) {
	kinds := Kinds()
	require.NotEmpty(t, kinds)

	seen := map[string]bool{}
	for _, k := range kinds {
		assert.Regexp(t, codePattern, k.Code)
		assert.False(t, seen[k.Code], "duplicate code %s", k.Code)
		seen[k.Code] = true
		assert.NotZero(t, k.Status, "kind %s has no status", k.Code)
		assert.NotEmpty(t, k.Template, "kind %s has no template", k.Code)
	}
}

func TestAuthenticationKindsCarryBearerChallenge(t *testing.T) {
	for _, k := range Kinds() {
		if k.Family != FamilyAuthentication {
			continue
		}
		assert.Equal(t, http.StatusUnauthorized, k.Status, k.Code)
		assert.Equal(t, "Bearer", k.Headers["WWW-Authenticate"], k.Code)
	}
}

func TestTranslateUsesKindDefaults(t *testing.T) {
	for _, k := range Kinds() {
		we := Translate(New(k, nil))
		assert.Equal(t, k.Code, we.ErrorCode)
		assert.Equal(t, k.Status, we.StatusCode)
	}
}

func TestTranslateIsIdempotent(t *testing.T) {
	f := NewTodoNotFound(999, 1)

	first, err := json.Marshal(Translate(f))
	require.NoError(t, err)
	second, err := json.Marshal(Translate(f))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestTranslateOverrides(t *testing.T) {
	f := New(KindUserNotFound, map[string]any{
		"identifier_type":  "email",
		"identifier_value": "a@b.c",
	}).WithStatus(http.StatusGone).WithHeader("X-Reason", "purged")

	we := Translate(f)
	assert.Equal(t, http.StatusGone, we.StatusCode)
	assert.Equal(t, "USER_NOT_FOUND", we.ErrorCode)
	assert.Equal(t, "purged", we.Headers["X-Reason"])
}

func TestHeaderOverrideWinsOnCollision(t *testing.T) {
	f := NewMissingToken().WithHeader("WWW-Authenticate", `Bearer scope="todos:read"`)
	assert.Equal(t, `Bearer scope="todos:read"`, f.Headers()["WWW-Authenticate"])

	// the shared kind is untouched
	assert.Equal(t, "Bearer", KindMissingToken.Headers["WWW-Authenticate"])
}

func TestTemplateRendering(t *testing.T) {
	f := NewTodoNotFound(999, 1)
	assert.Equal(t, "Todo with id '999' not found", f.Message())

	we := Translate(f)
	assert.Equal(t, "Todo with id '999' not found", we.Detail)
	assert.Equal(t, int64(999), we.ExtraData["todo_id"])
	assert.Equal(t, int64(1), we.ExtraData["owner_id"])
}

// The priority failure reports whatever set the caller accepts, not a
// baked-in one.
func TestInvalidPriorityListsCallerValues(t *testing.T) {
	f := NewInvalidPriority("urgent", []string{"low", "medium", "high"})
	assert.Equal(t, "Invalid priority 'urgent'. Valid priorities: low, medium, high.", f.Message())

	we := Translate(f)
	assert.Equal(t, []any{"low", "medium", "high"}, we.ExtraData["valid_values"])
	assert.Equal(t, "urgent", we.ExtraData["provided_priority"])
}

func TestTranslateUnclassifiedFault(t *testing.T) {
	we := Translate(fmt.Errorf("pq: connection reset"))

	assert.Equal(t, http.StatusInternalServerError, we.StatusCode)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", we.ErrorCode)
	assert.Equal(t, "Internal server error", we.Detail)
	assert.Contains(t, we.ExtraData, "fault_type")
	assert.NotContains(t, we.Detail, "connection reset")
	assert.NotContains(t, we.ExtraData, "fault_detail")
}

func TestTranslateDebugExposesFaultDetail(t *testing.T) {
	we := Translator{Debug: true}.Translate(errors.New("boom"))
	assert.Equal(t, "boom", we.ExtraData["fault_detail"])
}

func TestWrappedFailureKeepsItsKind(t *testing.T) {
	cause := errors.New("row not found")
	wrapped := fmt.Errorf("loading todo: %w", NewTodoNotFound(7, 0).WithCause(cause))

	we := Translate(wrapped)
	assert.Equal(t, "TODO_NOT_FOUND", we.ErrorCode)
	assert.Equal(t, http.StatusNotFound, we.StatusCode)
}

func TestConstructorsMatchContextSchema(t *testing.T) {
	cases := map[string]*Failure{
		"INVALID_TOKEN":            NewInvalidToken("signature verification failed"),
		"EXPIRED_TOKEN":            NewExpiredToken(time.Unix(1700000000, 0)),
		"ACCESS_DENIED":            NewAccessDenied([]string{"todos:write"}, []string{"todos:read"}),
		"INSUFFICIENT_PERMISSIONS": NewInsufficientPermissions([]string{"admin"}, nil, "users"),
		"TODO_ACCESS_DENIED":       NewTodoAccessDenied(1, 2),
		"RATE_LIMIT_EXCEEDED":      NewRateLimitExceeded("burst", "10/10s", 10, "/todos", "ip:1.2.3.4"),
		"IP_BLOCKED":               NewIPBlocked("1.2.3.4", "suspicious activity"),
		"VALIDATION_ERROR":         NewValidation("title", "", "must not be empty"),
		"WEAK_PASSWORD":            NewWeakPassword(4, []string{"at least 8 characters"}),
		"INVALID_EMAIL":            NewInvalidEmail("nope"),
		"INVALID_USERNAME":         NewInvalidUsername("x", "too short"),
		"VALUE_TOO_LONG":           NewValueTooLong("title", 100, 140),
		"VALUE_TOO_SHORT":          NewValueTooShort("username", 3, 1),
		"INVALID_RANGE":            NewInvalidRange("priority", 9, 1, 5),
		"REQUIRED_FIELD_MISSING":   NewRequiredFieldMissing("title"),
		"INVALID_CHOICE":           NewInvalidChoice("status", "done-ish", []any{"open", "done"}),
		"TODO_NOT_FOUND":           NewTodoNotFound(1, 0),
		"USER_NOT_FOUND":           NewUserNotFound(42, "id"),
		"INVALID_PRIORITY":         NewInvalidPriority("urgent", []string{"low", "medium", "high"}),
		"TODO_ALREADY_COMPLETED":   NewTodoAlreadyCompleted(1),
		"TODO_TITLE_TOO_LONG":      NewTodoTitleTooLong(140, 100),
		"DUPLICATE_USER":           NewDuplicateUser("email", "a@b.c"),
		"USER_INACTIVE":            NewUserInactive(42),
		"NOT_FOUND":                NewNotFound("Session", "abc"),
	}

	for code, f := range cases {
		require.Equal(t, code, f.Kind.Code)
		for _, field := range ContextFields(code) {
			assert.Contains(t, f.Context, field, "%s missing context field %q", code, field)
		}
	}
}

func TestWeakPasswordScenario(t *testing.T) {
	f := NewWeakPassword(4, []string{
		"at least 8 characters",
		"at least one uppercase letter",
		"at least one digit",
		"at least one special character",
	})

	we := Translate(f)
	assert.Equal(t, http.StatusBadRequest, we.StatusCode)
	assert.Equal(t, "WEAK_PASSWORD", we.ErrorCode)
	missing, ok := we.ExtraData["missing_requirements"].([]string)
	require.True(t, ok)
	assert.NotEmpty(t, missing)
	assert.Equal(t, "at least 8 characters", missing[0])
}

func TestGRPCStatusMapping(t *testing.T) {
	assert.Equal(t, codes.Unauthenticated, GRPCStatus(NewMissingToken()).Code())
	assert.Equal(t, codes.PermissionDenied, GRPCStatus(NewAccessDenied(nil, nil)).Code())
	assert.Equal(t, codes.ResourceExhausted, GRPCStatus(NewRateLimitExceeded("burst", "60/min", 1, "", "")).Code())
	assert.Equal(t, codes.NotFound, GRPCStatus(NewTodoNotFound(1, 0)).Code())
	assert.Equal(t, codes.AlreadyExists, GRPCStatus(NewDuplicateUser("email", "a@b.c")).Code())
	assert.Equal(t, codes.InvalidArgument, GRPCStatus(NewInvalidPriority("x", nil)).Code())
	assert.Equal(t, codes.Internal, GRPCStatus(errors.New("boom")).Code())
}
