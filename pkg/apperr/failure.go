package apperr

import "fmt"

// Failure is a signaled, classified failure instance. It is created at
// the point of failure detection, propagated up the call chain
// unchanged, and consumed exactly once by the translator.
//
// All With* helpers return a shallow copy so a Failure can be shared
// safely; the original is never mutated in transit.
type Failure struct {
	// Kind binds this instance to exactly one catalog entry.
	Kind *Kind

	// Context carries extra structured fields (todo_id, owner_id, ...).
	// It is copied verbatim into the wire object's extra_data and feeds
	// template substitution. Treated as immutable once attached.
	Context map[string]any

	status  int
	headers map[string]string
	cause   error
}

// New constructs a Failure of the given kind. ctx may be nil.
func New(kind *Kind, ctx map[string]any) *Failure {
	if kind == nil {
		kind = KindInternalServerError
	}
	return &Failure{Kind: kind, Context: ctx}
}

// Error implements the error interface as "[CODE] message".
func (f *Failure) Error() string {
	if f == nil {
		return "<nil>"
	}
	return fmt.Sprintf("[%s] %s", f.Kind.Code, f.Message())
}

// Unwrap exposes the underlying cause for errors.Is / errors.As chains.
func (f *Failure) Unwrap() error { return f.cause }

// Message renders the kind's template with the instance context.
func (f *Failure) Message() string {
	return renderTemplate(f.Kind.Template, f.Context)
}

// Status returns the effective HTTP status: the instance override when
// present, otherwise the kind default.
func (f *Failure) Status() int {
	if f.status != 0 {
		return f.status
	}
	return f.Kind.Status
}

// Headers merges the kind's default directives with instance overrides;
// overrides win on key collision. The result is always a fresh map.
func (f *Failure) Headers() map[string]string {
	if len(f.Kind.Headers) == 0 && len(f.headers) == 0 {
		return nil
	}
	out := make(map[string]string, len(f.Kind.Headers)+len(f.headers))
	for k, v := range f.Kind.Headers {
		out[k] = v
	}
	for k, v := range f.headers {
		out[k] = v
	}
	return out
}

// WithStatus returns a copy with the HTTP status overridden.
func (f *Failure) WithStatus(status int) *Failure {
	cp := *f
	cp.status = status
	return &cp
}

// WithHeader returns a copy with one header directive overridden.
func (f *Failure) WithHeader(key, value string) *Failure {
	cp := *f
	m := make(map[string]string, len(cp.headers)+1)
	for k, v := range cp.headers {
		m[k] = v
	}
	m[key] = value
	cp.headers = m
	return &cp
}

// WithContext returns a copy with one extra context field.
func (f *Failure) WithContext(key string, value any) *Failure {
	cp := *f
	m := make(map[string]any, len(cp.Context)+1)
	for k, v := range cp.Context {
		m[k] = v
	}
	m[key] = value
	cp.Context = m
	return &cp
}

// WithCause returns a copy with the underlying error attached. The
// cause is for logs and unwrapping only; it never reaches the wire.
func (f *Failure) WithCause(err error) *Failure {
	if err == nil {
		return f
	}
	cp := *f
	cp.cause = err
	return &cp
}
