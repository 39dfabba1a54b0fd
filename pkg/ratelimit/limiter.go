package ratelimit

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	log "github.com/PicardRaphael/todo-api-go/pkg/logger"
)

// LimitTypeBurst and LimitTypeSustained tag which check rejected a
// request; they surface in the wire error's extra_data.limit_type.
const (
	LimitTypeBurst     = "burst"
	LimitTypeSustained = "sustained"
)

// Decision is the outcome of one admission check.
type Decision struct {
	Allowed bool
	// LimitType identifies the violated check when rejected.
	LimitType string
	// RetryAfter is the advisory wait before the next attempt.
	RetryAfter time.Duration

	// Limit, Remaining and Reset feed the X-RateLimit-* headers.
	Limit     int
	Remaining int
	Reset     time.Time
}

// state is the per-client-key limiter state. Each key's state is
// mutated under its own mutex; requests from different keys never
// contend.
type state struct {
	mu sync.Mutex

	tokens     float64
	lastRefill time.Time

	window []time.Time

	violations    int
	multiplier    float64
	lastViolation time.Time

	lastSeen time.Time
}

// Limiter tracks request cadence per client key. Construct at service
// start, inject into the pipeline, stop the janitor at shutdown.
type Limiter struct {
	cfg Config
	now func() time.Time

	// mu guards the keyed map only; it is never held across the
	// refill/decision logic.
	mu      sync.Mutex
	entries map[string]*state

	// windows, when set, replaces the local sustained-window log with a
	// shared store (Redis) so multiple instances agree on the count.
	windows WindowStore

	whitelist map[string]struct{}
}

// Option customizes a Limiter.
type Option func(*Limiter)

// WithClock injects a time source, used by tests for determinism.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// WithWindowStore backs the sustained window with a shared store.
func WithWindowStore(ws WindowStore) Option {
	return func(l *Limiter) { l.windows = ws }
}

// New builds a Limiter from cfg, applying defaults.
func New(cfg Config, opts ...Option) *Limiter {
	cfg.ApplyDefaults()
	l := &Limiter{
		cfg:       cfg,
		now:       time.Now,
		entries:   make(map[string]*state),
		whitelist: make(map[string]struct{}, len(cfg.Whitelist)),
	}
	for _, key := range cfg.Whitelist {
		l.whitelist[key] = struct{}{}
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Admit decides whether one request from key on the given endpoint
// class may proceed. A consumed token is never refunded, even if the
// caller later aborts the request: cancellation must not become a way
// around throttling.
func (l *Limiter) Admit(ctx context.Context, key, class string) Decision {
	cc := l.cfg.class(class)
	now := l.now()

	if l.whitelisted(key) {
		return Decision{Allowed: true, Limit: cc.SustainedLimit, Remaining: cc.SustainedLimit, Reset: now.Add(l.cfg.Window)}
	}

	st := l.lookup(key, cc, now)

	st.mu.Lock()
	defer st.mu.Unlock()
	st.lastSeen = now

	l.recoverMultiplier(st, now)

	// 1. Refill the bucket.
	elapsed := now.Sub(st.lastRefill).Seconds()
	if elapsed > 0 {
		st.tokens = math.Min(cc.Capacity, st.tokens+elapsed*cc.RefillRate)
		st.lastRefill = now
	}

	effLimit := int(float64(cc.SustainedLimit) * st.multiplier)
	if effLimit < 1 {
		effLimit = 1
	}

	// 2. Burst check.
	if st.tokens < 1 {
		l.punish(st, now)
		wait := time.Duration((1 - st.tokens) / cc.RefillRate * float64(time.Second))
		return Decision{
			LimitType:  LimitTypeBurst,
			RetryAfter: ceilSecond(wait),
			Limit:      effLimit,
			Remaining:  0,
			Reset:      now.Add(ceilSecond(wait)),
		}
	}

	// 3. Sustained check. The rejected request still counts toward the
	// window so a client hammering the API keeps itself throttled.
	count, oldest := l.observeWindow(ctx, st, key, now)
	if count > effLimit {
		l.punish(st, now)
		wait := oldest.Add(l.cfg.Window).Sub(now)
		if wait <= 0 {
			wait = time.Second
		}
		return Decision{
			LimitType:  LimitTypeSustained,
			RetryAfter: ceilSecond(wait),
			Limit:      effLimit,
			Remaining:  0,
			Reset:      oldest.Add(l.cfg.Window),
		}
	}

	// 4. Consume and allow.
	st.tokens--
	return Decision{
		Allowed:   true,
		Limit:     effLimit,
		Remaining: effLimit - count,
		Reset:     oldest.Add(l.cfg.Window),
	}
}

// whitelisted matches the full key or, for prefixed keys like
// "ip:127.0.0.1", the bare address after the prefix.
func (l *Limiter) whitelisted(key string) bool {
	if _, ok := l.whitelist[key]; ok {
		return true
	}
	if i := strings.IndexByte(key, ':'); i >= 0 {
		if _, ok := l.whitelist[key[i+1:]]; ok {
			return true
		}
	}
	return false
}

// lookup returns the state for key, creating it lazily. The map lock
// is held only for the lookup/insert itself.
func (l *Limiter) lookup(key string, cc ClassConfig, now time.Time) *state {
	l.mu.Lock()
	defer l.mu.Unlock()
	if st, ok := l.entries[key]; ok {
		return st
	}
	st := &state{
		tokens:     cc.Capacity,
		lastRefill: now,
		multiplier: 1.0,
		lastSeen:   now,
	}
	l.entries[key] = st
	return st
}

// punish records a violation and tightens the client's limits.
func (l *Limiter) punish(st *state, now time.Time) {
	st.violations++
	st.lastViolation = now
	st.multiplier = math.Max(l.cfg.MinMultiplier, st.multiplier*l.cfg.ViolationDecay)
}

// recoverMultiplier restores the multiplier toward 1.0 once the
// cooldown has elapsed with no new violations.
func (l *Limiter) recoverMultiplier(st *state, now time.Time) {
	if st.multiplier >= 1.0 || st.lastViolation.IsZero() {
		return
	}
	quiet := now.Sub(st.lastViolation)
	if quiet <= l.cfg.RecoveryCooldown {
		return
	}
	recovered := (quiet - l.cfg.RecoveryCooldown).Seconds() * l.cfg.RecoveryRate
	st.multiplier = math.Min(1.0, st.multiplier+recovered)
	if st.multiplier >= 1.0 {
		st.violations = 0
	}
}

// observeWindow appends the request to the sustained window and returns
// the resulting count plus the oldest in-window timestamp.
func (l *Limiter) observeWindow(ctx context.Context, st *state, key string, now time.Time) (int, time.Time) {
	if l.windows != nil {
		count, oldest, err := l.windows.Observe(ctx, key, now, l.cfg.Window)
		if err == nil {
			return int(count), oldest
		}
		// Shared store unavailable: fall back to the local log rather
		// than failing open entirely.
		log.WithError(err).Warn("rate limit window store unavailable, using local window")
	}

	st.window = append(st.window, now)
	horizon := now.Add(-l.cfg.Window)
	i := 0
	for i < len(st.window) && !st.window[i].After(horizon) {
		i++
	}
	if i > 0 {
		st.window = append(st.window[:0], st.window[i:]...)
	}
	return len(st.window), st.window[0]
}

// Window returns the sustained-window horizon in effect.
func (l *Limiter) Window() time.Duration {
	return l.cfg.Window
}

// Sweep evicts client state idle beyond the retention horizon.
func (l *Limiter) Sweep() {
	cutoff := l.now().Add(-l.cfg.RetentionHorizon)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, st := range l.entries {
		st.mu.Lock()
		idle := st.lastSeen.Before(cutoff)
		st.mu.Unlock()
		if idle {
			delete(l.entries, key)
		}
	}
}

// StartJanitor sweeps idle state periodically until ctx is canceled.
func (l *Limiter) StartJanitor(ctx context.Context) {
	t := time.NewTicker(l.cfg.SweepEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				l.Sweep()
			}
		}
	}()
}

func ceilSecond(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Second
	}
	if r := d % time.Second; r != 0 {
		d += time.Second - r
	}
	return d
}
