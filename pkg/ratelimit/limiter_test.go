package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestLimiter(cfg Config, clock *fakeClock) *Limiter {
	return New(cfg, WithClock(clock.Now))
}

func TestBurstLimitExactRejection(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	l := newTestLimiter(Config{
		Classes: map[string]ClassConfig{
			ClassDefault: {Capacity: 60, RefillRate: 1, SustainedLimit: 1000},
		},
	}, clock)

	rejected := 0
	var last Decision
	for i := 0; i < 61; i++ {
		d := l.Admit(context.Background(), "1.2.3.4", ClassDefault)
		if !d.Allowed {
			rejected++
			last = d
		}
	}
	assert.Equal(t, 1, rejected)
	assert.Equal(t, LimitTypeBurst, last.LimitType)
	assert.Equal(t, time.Second, last.RetryAfter)
}

func TestBurstRefillRestoresAdmission(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	l := newTestLimiter(Config{
		Classes: map[string]ClassConfig{
			ClassDefault: {Capacity: 2, RefillRate: 1, SustainedLimit: 1000},
		},
	}, clock)

	ctx := context.Background()
	assert.True(t, l.Admit(ctx, "k", ClassDefault).Allowed)
	assert.True(t, l.Admit(ctx, "k", ClassDefault).Allowed)
	assert.False(t, l.Admit(ctx, "k", ClassDefault).Allowed)

	clock.Advance(1500 * time.Millisecond)
	assert.True(t, l.Admit(ctx, "k", ClassDefault).Allowed)
}

func TestSustainedLimit(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	l := newTestLimiter(Config{
		Classes: map[string]ClassConfig{
			ClassDefault: {Capacity: 100, RefillRate: 100, SustainedLimit: 5},
		},
		Window: time.Minute,
	}, clock)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		d := l.Admit(ctx, "k", ClassDefault)
		require.True(t, d.Allowed, "request %d", i)
		clock.Advance(time.Second)
	}

	d := l.Admit(ctx, "k", ClassDefault)
	assert.False(t, d.Allowed)
	assert.Equal(t, LimitTypeSustained, d.LimitType)
	// Oldest entry leaves the window 55s from now.
	assert.Equal(t, 55*time.Second, d.RetryAfter)
}

// Each violation halves the effective sustained limit, floored at the
// configured minimum.
func TestAdaptiveTightening(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	l := newTestLimiter(Config{
		Classes: map[string]ClassConfig{
			ClassDefault: {Capacity: 100, RefillRate: 100, SustainedLimit: 10},
		},
		Window: time.Minute,
	}, clock)

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		require.True(t, l.Admit(ctx, "k", ClassDefault).Allowed)
	}

	d := l.Admit(ctx, "k", ClassDefault)
	require.False(t, d.Allowed)

	// After one violation the limit is halved; after two, quartered.
	d = l.Admit(ctx, "k", ClassDefault)
	require.False(t, d.Allowed)
	assert.Equal(t, 5, d.Limit)

	d = l.Admit(ctx, "k", ClassDefault)
	require.False(t, d.Allowed)
	assert.Equal(t, 2, d.Limit)

	st := l.entries["k"]
	assert.Equal(t, 3, st.violations)
	assert.InDelta(t, 0.125, st.multiplier, 1e-9)
}

func TestMultiplierFloor(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	l := newTestLimiter(Config{
		Classes: map[string]ClassConfig{
			ClassDefault: {Capacity: 100, RefillRate: 100, SustainedLimit: 10},
		},
		Window:        time.Minute,
		MinMultiplier: 0.1,
	}, clock)

	ctx := context.Background()
	for i := 0; i < 30; i++ {
		l.Admit(ctx, "k", ClassDefault)
	}
	assert.InDelta(t, 0.1, l.entries["k"].multiplier, 1e-9)
	// The effective limit never drops below one.
	d := l.Admit(ctx, "k", ClassDefault)
	assert.Equal(t, 1, d.Limit)
}

// A quiet period past the cooldown restores the multiplier and full
// admission.
func TestMultiplierRecovery(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	l := newTestLimiter(Config{
		Classes: map[string]ClassConfig{
			ClassDefault: {Capacity: 100, RefillRate: 100, SustainedLimit: 10},
		},
		Window:           time.Minute,
		RecoveryCooldown: 5 * time.Minute,
		RecoveryRate:     1.0 / 300,
		RetentionHorizon: time.Hour,
	}, clock)

	ctx := context.Background()
	for i := 0; i < 13; i++ {
		l.Admit(ctx, "k", ClassDefault)
	}
	require.Equal(t, 3, l.entries["k"].violations)
	require.Less(t, l.entries["k"].multiplier, 1.0)

	// Cooldown plus full recovery time at 1/300 per second.
	clock.Advance(5*time.Minute + 300*time.Second)

	d := l.Admit(ctx, "k", ClassDefault)
	assert.True(t, d.Allowed)
	assert.Equal(t, 10, d.Limit)
	assert.InDelta(t, 1.0, l.entries["k"].multiplier, 1e-9)
	assert.Equal(t, 0, l.entries["k"].violations)
}

func TestWhitelistBypass(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	l := newTestLimiter(Config{
		Classes: map[string]ClassConfig{
			ClassDefault: {Capacity: 1, RefillRate: 0.001, SustainedLimit: 1},
		},
		Whitelist: []string{"10.0.0.1"},
	}, clock)

	ctx := context.Background()
	for i := 0; i < 100; i++ {
		assert.True(t, l.Admit(ctx, "10.0.0.1", ClassDefault).Allowed)
	}
	// The prefixed key form matches the bare whitelist entry too.
	assert.True(t, l.Admit(ctx, "ip:10.0.0.1", ClassDefault).Allowed)
	// Whitelisted traffic leaves no state behind.
	assert.Empty(t, l.entries)
}

func TestKeysAreIndependent(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	l := newTestLimiter(Config{
		Classes: map[string]ClassConfig{
			ClassDefault: {Capacity: 1, RefillRate: 0.001, SustainedLimit: 100},
		},
	}, clock)

	ctx := context.Background()
	assert.True(t, l.Admit(ctx, "a", ClassDefault).Allowed)
	assert.False(t, l.Admit(ctx, "a", ClassDefault).Allowed)
	assert.True(t, l.Admit(ctx, "b", ClassDefault).Allowed)
}

func TestUnknownClassFallsBackToDefault(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	l := newTestLimiter(Config{
		Classes: map[string]ClassConfig{
			ClassDefault: {Capacity: 1, RefillRate: 0.001, SustainedLimit: 100},
		},
	}, clock)

	ctx := context.Background()
	assert.True(t, l.Admit(ctx, "k", "no-such-class").Allowed)
	assert.False(t, l.Admit(ctx, "k", "no-such-class").Allowed)
}

func TestRateLimitHeadersOnSuccess(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	l := newTestLimiter(Config{
		Classes: map[string]ClassConfig{
			ClassDefault: {Capacity: 100, RefillRate: 100, SustainedLimit: 10},
		},
		Window: time.Minute,
	}, clock)

	d := l.Admit(context.Background(), "k", ClassDefault)
	require.True(t, d.Allowed)
	assert.Equal(t, 10, d.Limit)
	assert.Equal(t, 9, d.Remaining)
	assert.Equal(t, clock.now.Add(time.Minute), d.Reset)
}

func TestSweepEvictsIdleState(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	l := newTestLimiter(Config{RetentionHorizon: 15 * time.Minute}, clock)

	ctx := context.Background()
	l.Admit(ctx, "stale", ClassDefault)
	clock.Advance(14 * time.Minute)
	l.Admit(ctx, "fresh", ClassDefault)

	clock.Advance(2 * time.Minute)
	l.Sweep()

	assert.NotContains(t, l.entries, "stale")
	assert.Contains(t, l.entries, "fresh")
}
