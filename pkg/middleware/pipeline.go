package middleware

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/PicardRaphael/todo-api-go/pkg/apperr"
	log "github.com/PicardRaphael/todo-api-go/pkg/logger"
	"github.com/PicardRaphael/todo-api-go/pkg/tracing"
)

// Handler is the error-returning request handler the pipeline
// composes. Returned errors are translated into the wire shape at the
// boundary; handlers never write error bodies themselves.
type Handler func(w http.ResponseWriter, r *http.Request) error

// Stage is one named processing step. Wrap receives the rest of the
// pipeline and decides whether and how to invoke it.
type Stage struct {
	Name string
	Wrap func(next Handler) Handler
}

// Pipeline composes stages in declaration order: the first stage sees
// the request first and the response last.
type Pipeline struct {
	stages     []Stage
	translator apperr.Translator
	tracer     trace.Tracer
}

// NewPipeline builds a pipeline over the given stages.
func NewPipeline(debug bool, stages ...Stage) *Pipeline {
	return &Pipeline{
		stages:     stages,
		translator: apperr.Translator{Debug: debug},
		tracer:     tracing.Tracer("pipeline"),
	}
}

// Append adds stages after the existing ones.
func (p *Pipeline) Append(stages ...Stage) *Pipeline {
	out := *p
	out.stages = append(append([]Stage(nil), p.stages...), stages...)
	return &out
}

// Then terminates the pipeline with the business handler and returns a
// plain http.Handler. The returned handler owns the boundary: request
// id assignment, tracing, panic recovery and error translation.
func (p *Pipeline) Then(h Handler) http.Handler {
	for i := len(p.stages) - 1; i >= 0; i-- {
		h = p.stages[i].Wrap(h)
	}
	inner := h

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		ctx := tracing.ExtractHeaders(r.Context(), r.Header)
		ctx = withRequestID(ctx, requestID)
		ctx = withClientKey(ctx, ClientIP(r))

		ctx, span := p.tracer.Start(ctx, r.Method+" "+r.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.target", r.URL.Path),
				attribute.String("request.id", requestID),
			),
		)
		defer span.End()

		r = r.WithContext(ctx)
		w.Header().Set(RequestIDHeader, requestID)

		err := p.invoke(inner, w, r)
		if err == nil {
			return
		}

		wire := p.translator.Translate(err)
		span.SetStatus(codes.Error, wire.ErrorCode)
		span.SetAttributes(attribute.Int("http.status_code", wire.StatusCode))
		if wire.StatusCode >= 500 {
			log.WithTrace(ctx).WithError(err).
				WithField("request_id", requestID).
				Error("request failed")
		} else {
			log.WithTrace(ctx).
				WithField("request_id", requestID).
				WithField("error_code", wire.ErrorCode).
				Debug("request rejected")
		}
		p.translator.WriteHTTP(w, err)
	})
}

// invoke runs the composed handler, converting panics into errors so a
// handler defect becomes a clean 500 instead of a dropped connection.
// The recovered value stays an unclassified fault: the translator keeps
// its detail off the wire outside debug mode.
func (p *Pipeline) invoke(h Handler, w http.ResponseWriter, r *http.Request) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return h(w, r)
}
