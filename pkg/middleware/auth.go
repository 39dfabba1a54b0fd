package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/PicardRaphael/todo-api-go/pkg/apperr"
	"github.com/PicardRaphael/todo-api-go/pkg/audit"
	"github.com/PicardRaphael/todo-api-go/pkg/auth"
)

// Authenticate validates the bearer token and checks it grants every
// required scope. On success the decoded token is placed on the
// request context for the handler and later stages. Rejections are
// recorded on the audit trail before the failure propagates.
func Authenticate(svc *auth.Service, trail *audit.Trail, scopes ...string) Stage {
	return Stage{
		Name: "authentication",
		Wrap: func(next Handler) Handler {
			return func(w http.ResponseWriter, r *http.Request) error {
				tok, err := svc.Authenticate(ExtractBearerToken(r), scopes...)
				if err != nil {
					recordAuthFailure(r, trail, err)
					return err
				}
				r = r.WithContext(withToken(r.Context(), tok))
				return next(w, r)
			}
		},
	}
}

func recordAuthFailure(r *http.Request, trail *audit.Trail, err error) {
	var f *apperr.Failure
	if !errors.As(err, &f) {
		return
	}
	eventType := audit.EventAuthFailed
	if f.Kind.Family == apperr.FamilyAuthorization {
		eventType = audit.EventAccessDenied
	}
	trail.Record(r.Context(), audit.Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		RequestID: RequestID(r.Context()),
		ClientKey: ClientKey(r.Context()),
		Endpoint:  r.URL.Path,
		ErrorCode: f.Kind.Code,
	})
}
