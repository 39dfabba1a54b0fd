// Package middleware composes the request-defense pipeline that fronts
// every route: security headers, address- and subject-keyed rate
// limiting, bearer authentication, then the business handler, with a
// single boundary that translates failures and recovers panics.
//
// Stages are explicit named descriptors executed in declaration order.
// A stage may short-circuit by returning without invoking the rest of
// the pipeline; the boundary still renders the wire error and the
// security headers still reach the client.
package middleware
