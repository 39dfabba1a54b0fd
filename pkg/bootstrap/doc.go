// Package bootstrap wires the service's infrastructure at startup:
// logger with file rotation, Redis for the shared rate-limit window,
// the Kafka audit trail and OpenTelemetry tracing.
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := bootstrap.InitLogger(cfg.Log, "todo-api"); err != nil {
//	    log.Fatal(err)
//	}
//	shutdown, err := bootstrap.InitTracing(ctx, cfg.Tracing)
//	if err != nil {
//	    log.Warn(err)
//	}
//	defer shutdown(ctx)
package bootstrap
