package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/PicardRaphael/todo-api-go/pkg/apperr"
)

// Service issues and validates HS256-signed JWTs. Validation failures
// are returned as catalog members, never raw jwt errors; the reason
// strings forwarded to clients describe the failure class only.
type Service struct {
	cfg Config
	now func() time.Time
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithClock injects a time source, used by tests for determinism.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService builds a token Service from cfg, applying defaults.
func NewService(cfg Config, opts ...ServiceOption) *Service {
	cfg.Defaults()
	s := &Service{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IssueAccessToken signs an access token for subjectID with the given
// scopes.
func (s *Service) IssueAccessToken(subjectID int64, scopes []string) (string, *Token, error) {
	return s.issue(subjectID, scopes, TypeAccess, s.cfg.AccessTTL)
}

// IssueRefreshToken signs a refresh token for subjectID. Refresh
// tokens carry no scopes; the refresh flow re-derives them from the
// user record.
func (s *Service) IssueRefreshToken(subjectID int64) (string, *Token, error) {
	return s.issue(subjectID, nil, TypeRefresh, s.cfg.RefreshTTL)
}

func (s *Service) issue(subjectID int64, scopes []string, tokenType string, ttl time.Duration) (string, *Token, error) {
	now := s.now()
	claims := &Claims{
		Scopes:    scopes,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(subjectID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", nil, err
	}
	tok, err := tokenFromClaims(claims)
	if err != nil {
		return "", nil, err
	}
	return signed, tok, nil
}

// Authenticate validates raw as an access token and checks it grants
// every required scope. Checks run in a fixed order and stop at the
// first failure: missing, expired, invalid, then insufficient scope.
// Expiry is checked before the signature, so an expired token always
// reports EXPIRED_TOKEN even when its signature no longer verifies.
func (s *Service) Authenticate(raw string, required ...string) (*Token, error) {
	tok, err := s.Validate(raw, TypeAccess)
	if err != nil {
		return nil, err
	}
	if !HasScopes(tok.Scopes, required) {
		return nil, apperr.NewAccessDenied(required, tok.Scopes)
	}
	return tok, nil
}

// Validate checks signature, expiry and token type, returning the
// decoded token.
func (s *Service) Validate(raw, wantType string) (*Token, error) {
	if raw == "" {
		return nil, apperr.NewMissingToken()
	}

	if expiredAt, expired := s.expiredAt(raw); expired {
		return nil, apperr.NewExpiredToken(expiredAt)
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(s.cfg.ClockSkew),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		var at time.Time
		if claims.ExpiresAt != nil {
			at = claims.ExpiresAt.Time
		}
		return nil, apperr.NewExpiredToken(at)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, apperr.NewInvalidToken("signature verification failed")
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, apperr.NewInvalidToken("malformed token")
	default:
		return nil, apperr.NewInvalidToken("token validation failed")
	}

	if claims.TokenType != wantType {
		return nil, apperr.NewInvalidToken("unexpected token type")
	}
	tok, err := tokenFromClaims(claims)
	if err != nil {
		return nil, apperr.NewInvalidToken("malformed subject claim")
	}
	return tok, nil
}

// expiredAt inspects the exp claim without verifying the signature.
func (s *Service) expiredAt(raw string) (time.Time, bool) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	at := claims.ExpiresAt.Time
	if s.now().After(at.Add(s.cfg.ClockSkew)) {
		return at, true
	}
	return time.Time{}, false
}

func (s *Service) keyFunc(*jwt.Token) (any, error) {
	return []byte(s.cfg.Secret), nil
}
