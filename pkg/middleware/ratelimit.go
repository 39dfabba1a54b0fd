package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/PicardRaphael/todo-api-go/pkg/apperr"
	"github.com/PicardRaphael/todo-api-go/pkg/audit"
	"github.com/PicardRaphael/todo-api-go/pkg/ratelimit"
)

// RateLimit throttles by client address before authentication runs, so
// unauthenticated floods are cut off without touching token
// verification. class picks the endpoint budget.
func RateLimit(l *ratelimit.Limiter, trail *audit.Trail, class string) Stage {
	return Stage{
		Name: "rate_limit",
		Wrap: func(next Handler) Handler {
			return func(w http.ResponseWriter, r *http.Request) error {
				key := "ip:" + ClientKey(r.Context())
				d := l.Admit(r.Context(), key, class)
				if !d.Allowed {
					return reject(r, trail, l, d, key, class)
				}
				setRateHeaders(w, d)
				return next(w, r)
			}
		},
	}
}

// SubjectRateLimit throttles by authenticated subject, with a budget
// independent of the address-keyed one. Placed after authentication;
// requests without a token pass through untouched. When both budgets
// answer, the response advertises the stricter remaining count.
func SubjectRateLimit(l *ratelimit.Limiter, trail *audit.Trail, class string) Stage {
	return Stage{
		Name: "subject_rate_limit",
		Wrap: func(next Handler) Handler {
			return func(w http.ResponseWriter, r *http.Request) error {
				tok := TokenFrom(r.Context())
				if tok == nil {
					return next(w, r)
				}
				key := "user:" + strconv.FormatInt(tok.SubjectID, 10)
				d := l.Admit(r.Context(), key, class)
				if !d.Allowed {
					return reject(r, trail, l, d, key, class)
				}
				setRateHeaders(w, d)
				return next(w, r)
			}
		},
	}
}

func reject(r *http.Request, trail *audit.Trail, l *ratelimit.Limiter, d ratelimit.Decision, key, class string) error {
	retryAfter := int(d.RetryAfter / time.Second)
	limit := fmt.Sprintf("%d per %s", d.Limit, windowName(l.Window()))
	f := apperr.NewRateLimitExceeded(d.LimitType, limit, retryAfter, r.URL.Path, key).
		WithHeader("X-RateLimit-Limit", strconv.Itoa(d.Limit)).
		WithHeader("X-RateLimit-Remaining", "0").
		WithHeader("X-RateLimit-Reset", strconv.FormatInt(d.Reset.Unix(), 10))

	trail.Record(r.Context(), audit.Event{
		Type:      audit.EventRateLimitExceeded,
		Timestamp: time.Now().UTC(),
		RequestID: RequestID(r.Context()),
		ClientKey: key,
		Endpoint:  r.URL.Path,
		ErrorCode: f.Kind.Code,
		Fields: map[string]any{
			"limit_type":  d.LimitType,
			"class":       class,
			"retry_after": retryAfter,
		},
	})
	return f
}

// setRateHeaders advertises the budget. A later stage only overwrites
// the headers when its remaining count is stricter.
func setRateHeaders(w http.ResponseWriter, d ratelimit.Decision) {
	h := w.Header()
	if prev := h.Get("X-RateLimit-Remaining"); prev != "" {
		if n, err := strconv.Atoi(prev); err == nil && n <= d.Remaining {
			return
		}
	}
	h.Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(d.Reset.Unix(), 10))
}

func windowName(w time.Duration) string {
	switch w {
	case time.Minute:
		return "minute"
	case time.Hour:
		return "hour"
	case time.Second:
		return "second"
	default:
		return w.String()
	}
}
