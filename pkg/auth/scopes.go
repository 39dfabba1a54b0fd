package auth

// Scopes granted in access tokens. ScopeAdmin implies every other
// scope.
const (
	ScopeTodosRead   = "todos:read"
	ScopeTodosWrite  = "todos:write"
	ScopeTodosDelete = "todos:delete"
	ScopeUsersRead   = "users:read"
	ScopeUsersWrite  = "users:write"
	ScopeAdmin       = "admin"
)

// DefaultScopes are granted to every freshly registered user.
func DefaultScopes() []string {
	return []string{ScopeTodosRead, ScopeTodosWrite, ScopeTodosDelete, ScopeUsersRead}
}

// HasScopes reports whether granted covers every required scope.
func HasScopes(granted, required []string) bool {
	if len(required) == 0 {
		return true
	}
	set := make(map[string]struct{}, len(granted))
	for _, s := range granted {
		if s == ScopeAdmin {
			return true
		}
		set[s] = struct{}{}
	}
	for _, s := range required {
		if _, ok := set[s]; !ok {
			return false
		}
	}
	return true
}
