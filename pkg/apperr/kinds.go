package apperr

import "net/http"

// bearerChallenge is attached to every authentication failure so clients
// know which scheme to retry with.
var bearerChallenge = map[string]string{"WWW-Authenticate": "Bearer"}

// Authentication family (401).
var (
	KindInvalidCredentials = register(Kind{
		Code:     "INVALID_CREDENTIALS",
		Family:   FamilyAuthentication,
		Status:   http.StatusUnauthorized,
		Template: "Invalid username or password",
		Headers:  bearerChallenge,
	})
	KindInvalidPassword = register(Kind{
		Code:     "INVALID_PASSWORD",
		Family:   FamilyAuthentication,
		Status:   http.StatusUnauthorized,
		Template: "Invalid password",
		Headers:  bearerChallenge,
	})
	KindInvalidToken = register(Kind{
		Code:     "INVALID_TOKEN",
		Family:   FamilyAuthentication,
		Status:   http.StatusUnauthorized,
		Template: "Invalid token: {reason}",
		Headers:  bearerChallenge,
	})
	KindExpiredToken = register(Kind{
		Code:     "EXPIRED_TOKEN",
		Family:   FamilyAuthentication,
		Status:   http.StatusUnauthorized,
		Template: "Token has expired. Please login again.",
		Headers:  bearerChallenge,
	})
	KindMissingToken = register(Kind{
		Code:     "MISSING_TOKEN",
		Family:   FamilyAuthentication,
		Status:   http.StatusUnauthorized,
		Template: "Authentication token is required",
		Headers:  bearerChallenge,
	})
	KindSessionExpired = register(Kind{
		Code:     "SESSION_EXPIRED",
		Family:   FamilyAuthentication,
		Status:   http.StatusUnauthorized,
		Template: "Session has expired. Please login again.",
		Headers:  bearerChallenge,
	})
)

// Authorization family (403, rate limiting 429).
var (
	KindAccessDenied = register(Kind{
		Code:     "ACCESS_DENIED",
		Family:   FamilyAuthorization,
		Status:   http.StatusForbidden,
		Template: "Access denied",
	})
	KindInsufficientPermissions = register(Kind{
		Code:     "INSUFFICIENT_PERMISSIONS",
		Family:   FamilyAuthorization,
		Status:   http.StatusForbidden,
		Template: "Insufficient permissions. Required scopes: {required_scopes}",
	})
	KindTodoAccessDenied = register(Kind{
		Code:     "TODO_ACCESS_DENIED",
		Family:   FamilyAuthorization,
		Status:   http.StatusForbidden,
		Template: "Access denied to todo {todo_id}. You can only access your own todos.",
	})
	KindRateLimitExceeded = register(Kind{
		Code:     "RATE_LIMIT_EXCEEDED",
		Family:   FamilyAuthorization,
		Status:   http.StatusTooManyRequests,
		Template: "Rate limit exceeded: {limit}. Try again in {retry_after} seconds.",
	})
	KindIPBlocked = register(Kind{
		Code:     "IP_BLOCKED",
		Family:   FamilyAuthorization,
		Status:   http.StatusForbidden,
		Template: "IP address {ip_address} is blocked. Reason: {reason}",
	})
)

// Validation family (400).
var (
	KindValidationError = register(Kind{
		Code:     "VALIDATION_ERROR",
		Family:   FamilyValidation,
		Status:   http.StatusBadRequest,
		Template: "Validation failed for field '{field}': {reason}",
	})
	KindWeakPassword = register(Kind{
		Code:     "WEAK_PASSWORD",
		Family:   FamilyValidation,
		Status:   http.StatusBadRequest,
		Template: "Password doesn't meet security requirements",
	})
	KindInvalidEmail = register(Kind{
		Code:     "INVALID_EMAIL",
		Family:   FamilyValidation,
		Status:   http.StatusBadRequest,
		Template: "Validation failed for field 'email': invalid email format",
	})
	KindInvalidUsername = register(Kind{
		Code:     "INVALID_USERNAME",
		Family:   FamilyValidation,
		Status:   http.StatusBadRequest,
		Template: "Validation failed for field 'username': {reason}",
	})
	KindValueTooLong = register(Kind{
		Code:     "VALUE_TOO_LONG",
		Family:   FamilyValidation,
		Status:   http.StatusBadRequest,
		Template: "Value too long for field '{field}'. Maximum {max_length} characters allowed, got {actual_length}.",
	})
	KindValueTooShort = register(Kind{
		Code:     "VALUE_TOO_SHORT",
		Family:   FamilyValidation,
		Status:   http.StatusBadRequest,
		Template: "Value too short for field '{field}'. Minimum {min_length} characters required, got {actual_length}.",
	})
	KindInvalidRange = register(Kind{
		Code:     "INVALID_RANGE",
		Family:   FamilyValidation,
		Status:   http.StatusBadRequest,
		Template: "Value {provided_value} for field '{field}' is outside valid range",
	})
	KindRequiredFieldMissing = register(Kind{
		Code:     "REQUIRED_FIELD_MISSING",
		Family:   FamilyValidation,
		Status:   http.StatusBadRequest,
		Template: "Required field '{field}' is missing",
	})
	KindInvalidChoice = register(Kind{
		Code:     "INVALID_CHOICE",
		Family:   FamilyValidation,
		Status:   http.StatusBadRequest,
		Template: "Invalid choice '{provided_choice}' for field '{field}'",
	})
)

// Domain family.
var (
	KindTodoNotFound = register(Kind{
		Code:     "TODO_NOT_FOUND",
		Family:   FamilyDomain,
		Status:   http.StatusNotFound,
		Template: "Todo with id '{todo_id}' not found",
	})
	KindUserNotFound = register(Kind{
		Code:     "USER_NOT_FOUND",
		Family:   FamilyDomain,
		Status:   http.StatusNotFound,
		Template: "User with {identifier_type} '{identifier_value}' not found",
	})
	KindInvalidPriority = register(Kind{
		Code:     "INVALID_PRIORITY",
		Family:   FamilyDomain,
		Status:   http.StatusBadRequest,
		Template: "Invalid priority '{provided_priority}'. Valid priorities: {valid_range}.",
	})
	KindTodoAlreadyCompleted = register(Kind{
		Code:     "TODO_ALREADY_COMPLETED",
		Family:   FamilyDomain,
		Status:   http.StatusBadRequest,
		Template: "Todo {todo_id} is already completed",
	})
	KindTodoTitleTooLong = register(Kind{
		Code:     "TODO_TITLE_TOO_LONG",
		Family:   FamilyDomain,
		Status:   http.StatusBadRequest,
		Template: "Todo title is too long. Maximum {max_length} characters allowed.",
	})
	KindDuplicateUser = register(Kind{
		Code:     "DUPLICATE_USER",
		Family:   FamilyDomain,
		Status:   http.StatusConflict,
		Template: "User with {duplicate_field} '{duplicate_value}' already exists",
	})
	KindUserInactive = register(Kind{
		Code:     "USER_INACTIVE",
		Family:   FamilyDomain,
		Status:   http.StatusForbidden,
		Template: "User account is inactive. Please contact support.",
	})
)

// System family. INTERNAL_SERVER_ERROR is the fallback for unclassified
// faults; its context is restricted by the translator.
var (
	KindInternalServerError = register(Kind{
		Code:     "INTERNAL_SERVER_ERROR",
		Family:   FamilySystem,
		Status:   http.StatusInternalServerError,
		Template: "Internal server error",
	})
	KindBadRequest = register(Kind{
		Code:     "BAD_REQUEST",
		Family:   FamilySystem,
		Status:   http.StatusBadRequest,
		Template: "Bad request",
	})
	KindNotFound = register(Kind{
		Code:     "NOT_FOUND",
		Family:   FamilySystem,
		Status:   http.StatusNotFound,
		Template: "{resource_type} not found",
	})
)
