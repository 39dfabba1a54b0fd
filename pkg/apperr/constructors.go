package apperr

import (
	"strconv"
	"strings"
	"time"
)

// Constructors below mirror the catalog one-to-one so call sites cannot
// drift on context field names. The same logical failure condition must
// always yield the same code, whichever layer raises it.

// NewInvalidCredentials signals a failed login attempt. The username is
// recorded for audit context; whether the account exists is never
// distinguishable from the response.
func NewInvalidCredentials(username string) *Failure {
	ctx := map[string]any{}
	if username != "" {
		ctx["attempted_username"] = username
	}
	return New(KindInvalidCredentials, ctx)
}

// NewInvalidToken signals a malformed token or failed signature check.
// reason describes which check failed; it must never carry secret
// material.
func NewInvalidToken(reason string) *Failure {
	return New(KindInvalidToken, map[string]any{"reason": reason})
}

// NewExpiredToken signals a structurally valid token past its expiry.
func NewExpiredToken(expiredAt time.Time) *Failure {
	ctx := map[string]any{}
	if !expiredAt.IsZero() {
		ctx["expired_at"] = expiredAt.UTC().Format(time.RFC3339)
	}
	return New(KindExpiredToken, ctx)
}

// NewMissingToken signals an absent bearer token on a protected route.
func NewMissingToken() *Failure {
	return New(KindMissingToken, nil)
}

// NewAccessDenied signals insufficient scopes for the operation.
func NewAccessDenied(required, granted []string) *Failure {
	return New(KindAccessDenied, map[string]any{
		"required_scopes": required,
		"granted_scopes":  granted,
	})
}

// NewInsufficientPermissions is the resource-qualified variant of
// NewAccessDenied used by handlers that know what was being accessed.
func NewInsufficientPermissions(required, granted []string, resource string) *Failure {
	ctx := map[string]any{
		"required_scopes": strings.Join(required, ", "),
		"user_scopes":     granted,
	}
	if resource != "" {
		ctx["resource"] = resource
	}
	return New(KindInsufficientPermissions, ctx)
}

// NewTodoAccessDenied signals an ownership violation on a todo.
func NewTodoAccessDenied(todoID int64, userID int64) *Failure {
	return New(KindTodoAccessDenied, map[string]any{
		"todo_id":            todoID,
		"requesting_user_id": userID,
	})
}

// NewRateLimitExceeded signals a throttled request. limitType is
// "burst" or "sustained"; retryAfter is the advisory wait in seconds.
func NewRateLimitExceeded(limitType, limit string, retryAfter int, endpoint, clientKey string) *Failure {
	ctx := map[string]any{
		"limit_type":         limitType,
		"limit":              limit,
		"retry_after":        retryAfter,
		"recommended_action": "Reduce request frequency and retry after the indicated delay",
	}
	if endpoint != "" {
		ctx["endpoint"] = endpoint
	}
	if clientKey != "" {
		ctx["user_identifier"] = clientKey
	}
	return New(KindRateLimitExceeded, ctx).
		WithHeader("Retry-After", strconv.Itoa(retryAfter))
}

// NewIPBlocked signals a client blocked outright.
func NewIPBlocked(ip, reason string) *Failure {
	return New(KindIPBlocked, map[string]any{
		"ip_address": ip,
		"reason":     reason,
	})
}

// NewValidation signals a generic field validation failure.
func NewValidation(field string, value any, reason string) *Failure {
	return New(KindValidationError, map[string]any{
		"field":          field,
		"provided_value": value,
		"reason":         reason,
	})
}

// NewWeakPassword signals an insufficient password. missing is the
// ordered list of unmet rule descriptions and must not be empty.
func NewWeakPassword(passwordLength int, missing []string) *Failure {
	return New(KindWeakPassword, map[string]any{
		"field":                "password",
		"password_length":      passwordLength,
		"missing_requirements": missing,
	})
}

// NewInvalidEmail signals a malformed email address.
func NewInvalidEmail(email string) *Failure {
	return New(KindInvalidEmail, map[string]any{
		"field":          "email",
		"provided_value": email,
		"valid_format":   "user@example.com",
	})
}

// NewInvalidUsername signals a malformed username.
func NewInvalidUsername(username, reason string) *Failure {
	return New(KindInvalidUsername, map[string]any{
		"field":          "username",
		"provided_value": username,
		"reason":         reason,
		"valid_format":   "3-20 characters, letters, numbers and underscores only",
	})
}

// NewValueTooLong signals a string exceeding its maximum length.
func NewValueTooLong(field string, maxLength, actualLength int) *Failure {
	return New(KindValueTooLong, map[string]any{
		"field":         field,
		"max_length":    maxLength,
		"actual_length": actualLength,
	})
}

// NewValueTooShort signals a string below its minimum length.
func NewValueTooShort(field string, minLength, actualLength int) *Failure {
	return New(KindValueTooShort, map[string]any{
		"field":         field,
		"min_length":    minLength,
		"actual_length": actualLength,
	})
}

// NewInvalidRange signals a numeric value outside its allowed range.
func NewInvalidRange(field string, value, min, max any) *Failure {
	return New(KindInvalidRange, map[string]any{
		"field":          field,
		"provided_value": value,
		"min_value":      min,
		"max_value":      max,
	})
}

// NewRequiredFieldMissing signals an absent required field.
func NewRequiredFieldMissing(field string) *Failure {
	return New(KindRequiredFieldMissing, map[string]any{"field": field})
}

// NewInvalidChoice signals a value outside the allowed choices.
func NewInvalidChoice(field string, value any, validChoices []any) *Failure {
	return New(KindInvalidChoice, map[string]any{
		"field":           field,
		"provided_choice": value,
		"valid_choices":   validChoices,
	})
}

// NewTodoNotFound signals a todo lookup miss. ownerID is the requesting
// user when known; pass 0 to omit.
func NewTodoNotFound(todoID int64, ownerID int64) *Failure {
	ctx := map[string]any{"todo_id": todoID}
	if ownerID != 0 {
		ctx["owner_id"] = ownerID
	}
	return New(KindTodoNotFound, ctx)
}

// NewUserNotFound signals a user lookup miss by id, email or username.
func NewUserNotFound(identifier any, identifierType string) *Failure {
	if identifierType == "" {
		identifierType = "id"
	}
	return New(KindUserNotFound, map[string]any{
		"identifier_type":  identifierType,
		"identifier_value": identifier,
	})
}

// NewInvalidPriority signals a priority outside the accepted set.
func NewInvalidPriority(priority any, valid []string) *Failure {
	values := make([]any, len(valid))
	for i, v := range valid {
		values[i] = v
	}
	return New(KindInvalidPriority, map[string]any{
		"provided_priority": priority,
		"valid_range":       strings.Join(valid, ", "),
		"valid_values":      values,
	})
}

// NewTodoAlreadyCompleted signals a repeated completion attempt.
func NewTodoAlreadyCompleted(todoID int64) *Failure {
	return New(KindTodoAlreadyCompleted, map[string]any{"todo_id": todoID})
}

// NewTodoTitleTooLong signals an over-long todo title.
func NewTodoTitleTooLong(providedLength, maxLength int) *Failure {
	return New(KindTodoTitleTooLong, map[string]any{
		"provided_length": providedLength,
		"max_length":      maxLength,
	})
}

// NewDuplicateUser signals a uniqueness violation on user creation.
func NewDuplicateUser(field, value string) *Failure {
	return New(KindDuplicateUser, map[string]any{
		"duplicate_field": field,
		"duplicate_value": value,
	})
}

// NewUserInactive signals authentication against a deactivated account.
func NewUserInactive(userID int64) *Failure {
	return New(KindUserInactive, map[string]any{"user_id": userID})
}

// NewInternal wraps an unclassified fault. The cause is retained for
// server-side diagnostics only.
func NewInternal(cause error) *Failure {
	return New(KindInternalServerError, nil).WithCause(cause)
}

// NewBadRequest signals a malformed request outside any more specific kind.
func NewBadRequest(detail string) *Failure {
	f := New(KindBadRequest, nil)
	if detail != "" {
		f = f.WithContext("reason", detail)
	}
	return f
}

// NewNotFound signals a miss on a resource without a dedicated kind.
func NewNotFound(resourceType string, resourceID any) *Failure {
	return New(KindNotFound, map[string]any{
		"resource_type": resourceType,
		"resource_id":   resourceID,
	})
}
