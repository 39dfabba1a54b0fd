package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/PicardRaphael/todo-api-go/pkg/auth"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	tokenKey     contextKey = "auth_token"
	clientKeyKey contextKey = "client_key"
)

// RequestIDHeader carries the per-request correlation id on both the
// request and the response.
const RequestIDHeader = "X-Request-ID"

// RequestID returns the correlation id assigned by the pipeline, or ""
// outside of it.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// TokenFrom returns the validated access token placed by the
// authentication stage, or nil on unauthenticated routes.
func TokenFrom(ctx context.Context) *auth.Token {
	tok, _ := ctx.Value(tokenKey).(*auth.Token)
	return tok
}

func withToken(ctx context.Context, tok *auth.Token) context.Context {
	return context.WithValue(ctx, tokenKey, tok)
}

// ClientKey returns the throttling key derived for this request.
func ClientKey(ctx context.Context) string {
	key, _ := ctx.Value(clientKeyKey).(string)
	return key
}

func withClientKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, clientKeyKey, key)
}

// ExtractBearerToken pulls the bearer credentials from the
// Authorization header. It returns "" when the header is absent or not
// a bearer scheme.
func ExtractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// ClientIP resolves the caller's address, trusting X-Forwarded-For and
// X-Real-IP when present so limits key on the origin behind a proxy.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}
	if rip := r.Header.Get("X-Real-IP"); rip != "" {
		return strings.TrimSpace(rip)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
