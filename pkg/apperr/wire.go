package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// WireError is the serialized error object returned to callers. The
// shape is part of the API contract and never changes.
type WireError struct {
	Detail     string            `json:"detail"`
	StatusCode int               `json:"status_code"`
	ErrorCode  string            `json:"error_code"`
	ExtraData  map[string]any    `json:"extra_data"`
	Headers    map[string]string `json:"headers,omitempty"`
}

// Translator maps raised failures (or unclassified faults) into wire
// error objects. The zero value is the production translator.
type Translator struct {
	// Debug exposes the fault message of unclassified errors in
	// extra_data. Never enable outside local development.
	Debug bool
}

// Translate resolves any error to exactly one WireError. Classified
// failures translate from their kind; anything else collapses to
// INTERNAL_SERVER_ERROR with extra_data limited to a fault-type tag.
// Translation is pure: the same failure always yields the same object.
func (t Translator) Translate(err error) WireError {
	var f *Failure
	if errors.As(err, &f) {
		extra := make(map[string]any, len(f.Context))
		for k, v := range f.Context {
			extra[k] = v
		}
		return WireError{
			Detail:     f.Message(),
			StatusCode: f.Status(),
			ErrorCode:  f.Kind.Code,
			ExtraData:  extra,
			Headers:    f.Headers(),
		}
	}

	extra := map[string]any{"fault_type": fmt.Sprintf("%T", err)}
	if t.Debug && err != nil {
		extra["fault_detail"] = err.Error()
	}
	return WireError{
		Detail:     KindInternalServerError.Template,
		StatusCode: KindInternalServerError.Status,
		ErrorCode:  KindInternalServerError.Code,
		ExtraData:  extra,
	}
}

// Translate applies the production translator.
func Translate(err error) WireError {
	return Translator{}.Translate(err)
}

// WriteHTTP serializes the translation of err onto w, applying header
// directives before the status line.
func (t Translator) WriteHTTP(w http.ResponseWriter, err error) {
	we := t.Translate(err)
	for k, v := range we.Headers {
		w.Header().Set(k, v)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(we.StatusCode)
	_ = json.NewEncoder(w).Encode(we)
}

// WriteHTTP applies the production translator.
func WriteHTTP(w http.ResponseWriter, err error) {
	Translator{}.WriteHTTP(w, err)
}
