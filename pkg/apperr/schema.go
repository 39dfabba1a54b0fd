package apperr

// contextSchema documents, per kind, the extra_data fields a freshly
// constructed failure of that kind is expected to carry. The wire
// format stays an open mapping; this registry exists so tests can pin
// the constructors to the documented shapes.
var contextSchema = map[string][]string{
	"INVALID_TOKEN":            {"reason"},
	"EXPIRED_TOKEN":            {"expired_at"},
	"ACCESS_DENIED":            {"required_scopes", "granted_scopes"},
	"INSUFFICIENT_PERMISSIONS": {"required_scopes", "user_scopes"},
	"TODO_ACCESS_DENIED":       {"todo_id", "requesting_user_id"},
	"RATE_LIMIT_EXCEEDED":      {"limit_type", "limit", "retry_after", "recommended_action"},
	"IP_BLOCKED":               {"ip_address", "reason"},
	"VALIDATION_ERROR":         {"field", "provided_value", "reason"},
	"WEAK_PASSWORD":            {"field", "password_length", "missing_requirements"},
	"INVALID_EMAIL":            {"field", "provided_value", "valid_format"},
	"INVALID_USERNAME":         {"field", "provided_value", "reason", "valid_format"},
	"VALUE_TOO_LONG":           {"field", "max_length", "actual_length"},
	"VALUE_TOO_SHORT":          {"field", "min_length", "actual_length"},
	"INVALID_RANGE":            {"field", "provided_value", "min_value", "max_value"},
	"REQUIRED_FIELD_MISSING":   {"field"},
	"INVALID_CHOICE":           {"field", "provided_choice", "valid_choices"},
	"TODO_NOT_FOUND":           {"todo_id"},
	"USER_NOT_FOUND":           {"identifier_type", "identifier_value"},
	"INVALID_PRIORITY":         {"provided_priority", "valid_range", "valid_values"},
	"TODO_ALREADY_COMPLETED":   {"todo_id"},
	"TODO_TITLE_TOO_LONG":      {"provided_length", "max_length"},
	"DUPLICATE_USER":           {"duplicate_field", "duplicate_value"},
	"USER_INACTIVE":            {"user_id"},
	"NOT_FOUND":                {"resource_type", "resource_id"},
}

// ContextFields returns the documented extra_data field names for a
// code, or nil when the kind carries no fixed context.
func ContextFields(code string) []string {
	return contextSchema[code]
}
