// Package ratelimit implements the adaptive request-rate control in
// front of the todo API.
//
// Two complementary checks guard each client key: a token bucket for
// burst control and a sliding window for sustained-rate control.
// Either check rejecting is sufficient to reject. Repeated violations
// shrink a per-key limit multiplier that decays back toward 1.0 once
// the client behaves again.
//
// State is keyed by client identity (IP, or subject id once
// authenticated) in a process-local store; the sustained window can
// optionally be backed by Redis for multi-instance deployments.
package ratelimit
