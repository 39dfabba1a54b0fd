package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token types carried in the "type" claim. Refresh tokens are only
// accepted by the refresh flow; access tokens everywhere else.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims is the JWT payload for both token types.
type Claims struct {
	Scopes    []string `json:"scopes,omitempty"`
	TokenType string   `json:"type"`
	jwt.RegisteredClaims
}

// Token is the validated, decoded form handed to business logic.
type Token struct {
	SubjectID int64
	Scopes    []string
	TokenType string
	JTI       string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// tokenFromClaims converts verified claims into the decoded form.
func tokenFromClaims(c *Claims) (*Token, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return nil, err
	}
	t := &Token{
		SubjectID: id,
		Scopes:    c.Scopes,
		TokenType: c.TokenType,
		JTI:       c.ID,
	}
	if c.IssuedAt != nil {
		t.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		t.ExpiresAt = c.ExpiresAt.Time
	}
	return t, nil
}
