package pasetotoken

import (
	"time"

	"github.com/google/uuid"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims is the app-facing token payload.
type Claims struct {
	Type TokenType

	UserID    uuid.UUID
	Role      string
	SessionID *uuid.UUID

	Issuer   string
	Audience string

	IssuedAt    time.Time
	NotBefore   time.Time
	ExpiresAt   time.Time
	TokenID     string // jti
	Subject     string
	RawFooter   []byte
	RawClaimsJS []byte
}

// GetUserID implements reqctx.AuthClaims.
func (c *Claims) GetUserID() uuid.UUID {
	return c.UserID
}

// GetRole implements reqctx.AuthClaims.
func (c *Claims) GetRole() string {
	return c.Role
}

// GetSessionID implements reqctx.AuthClaims.
func (c *Claims) GetSessionID() *uuid.UUID {
	return c.SessionID
}

// GetTokenType implements reqctx.AuthClaims.
func (c *Claims) GetTokenType() string {
	return string(c.Type)
}

// IsExpired implements reqctx.AuthClaims.
func (c *Claims) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}
