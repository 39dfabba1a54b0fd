package audit

import "time"

// Event types recorded on the security audit trail.
const (
	EventRateLimitExceeded = "rate_limit_exceeded"
	EventAuthFailed        = "auth_failed"
	EventAccessDenied      = "access_denied"
	EventSuspiciousInput   = "suspicious_input"
)

// Event is one security-relevant occurrence. Events describe expected
// rejections, not defects; they are emitted best-effort and never
// block request handling.
type Event struct {
	Type      string         `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	RequestID string         `json:"request_id,omitempty"`
	ClientKey string         `json:"client_key,omitempty"`
	SubjectID int64          `json:"subject_id,omitempty"`
	Endpoint  string         `json:"endpoint,omitempty"`
	ErrorCode string         `json:"error_code,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
}
