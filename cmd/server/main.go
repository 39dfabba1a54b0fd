package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PicardRaphael/todo-api-go/pkg/audit"
	"github.com/PicardRaphael/todo-api-go/pkg/auth"
	"github.com/PicardRaphael/todo-api-go/pkg/bootstrap"
	"github.com/PicardRaphael/todo-api-go/pkg/config"
	log "github.com/PicardRaphael/todo-api-go/pkg/logger"
	"github.com/PicardRaphael/todo-api-go/pkg/middleware"
	"github.com/PicardRaphael/todo-api-go/pkg/ratelimit"
)

const serviceName = "todo-api"

func main() {
	cfg, err := config.Load(config.LoadOptions{AllowNoConfig: true})
	if err != nil {
		log.Fatal(err)
	}
	if err := bootstrap.InitLogger(cfg.Log, serviceName); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := bootstrap.InitTracing(ctx, cfg.Tracing)
	if err != nil {
		log.WithError(err).Warn("tracing disabled")
		shutdownTracing = func(context.Context) error { return nil }
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.WithError(err).Warn("tracing shutdown failed")
		}
	}()

	trail, err := bootstrap.InitAudit(cfg.Audit)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = trail.Close() }()

	limiterOpts := []ratelimit.Option{}
	redisClient, err := bootstrap.InitRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatal(err)
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
		limiterOpts = append(limiterOpts, ratelimit.WithWindowStore(
			ratelimit.NewRedisWindow(redisClient, "")))
	}
	limiter := ratelimit.New(cfg.RateLimit, limiterOpts...)
	limiter.StartJanitor(ctx)

	tokens := auth.NewService(auth.Config{
		Secret:     cfg.JWT.SecretKey,
		AccessTTL:  cfg.JWT.AccessTokenTTL.Duration(),
		RefreshTTL: cfg.JWT.RefreshTokenTTL.Duration(),
		ClockSkew:  cfg.JWT.ClockSkew.Duration(),
	})

	a := &api{store: newStore(), tokens: tokens, trail: trail}
	mux := routes(cfg, a, tokens, limiter, trail)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithFields(log.Fields{"addr": srv.Addr, "env": cfg.App.Env}).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}

// routes mounts the surface, one pipeline per endpoint class so each
// route group gets its own budget and scope requirements.
func routes(cfg *config.Config, a *api, tokens *auth.Service, limiter *ratelimit.Limiter, trail *audit.Trail) *http.ServeMux {
	debug := cfg.App.Debug

	// Credential routes: strict budget, responses never cached.
	authSecurity := cfg.Security
	authSecurity.NoStore = true
	authPipe := middleware.NewPipeline(debug,
		middleware.SecurityHeaders(authSecurity),
		middleware.RateLimit(limiter, trail, ratelimit.ClassAuth),
	)

	protected := func(class string, scopes ...string) *middleware.Pipeline {
		return middleware.NewPipeline(debug,
			middleware.SecurityHeaders(cfg.Security),
			middleware.RateLimit(limiter, trail, class),
			middleware.Authenticate(tokens, trail, scopes...),
			middleware.SubjectRateLimit(limiter, trail, class),
		)
	}

	healthPipe := middleware.NewPipeline(debug,
		middleware.SecurityHeaders(cfg.Security),
		middleware.RateLimit(limiter, trail, ratelimit.ClassHealth),
	)

	mux := http.NewServeMux()
	mux.Handle("GET /health", healthPipe.Then(a.health))

	mux.Handle("POST /auth/register", authPipe.Then(a.register))
	mux.Handle("POST /auth/login", authPipe.Then(a.login))
	mux.Handle("POST /auth/refresh", authPipe.Then(a.refresh))

	mux.Handle("GET /todos", protected(ratelimit.ClassRead, auth.ScopeTodosRead).Then(a.listTodos))
	mux.Handle("GET /todos/{id}", protected(ratelimit.ClassRead, auth.ScopeTodosRead).Then(a.getTodo))
	mux.Handle("POST /todos", protected(ratelimit.ClassWrite, auth.ScopeTodosWrite).Then(a.createTodo))
	mux.Handle("POST /todos/{id}/complete", protected(ratelimit.ClassWrite, auth.ScopeTodosWrite).Then(a.completeTodo))
	mux.Handle("DELETE /todos/{id}", protected(ratelimit.ClassWrite, auth.ScopeTodosDelete).Then(a.deleteTodo))

	return mux
}
