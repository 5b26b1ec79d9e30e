package reqctx

import (
	"context"

	"github.com/google/uuid"
)

// AuthClaims is the claim surface carried through the request context.
// It is an interface so the token implementation stays swappable.
type AuthClaims interface {
	GetUserID() uuid.UUID
	GetRole() string
	GetSessionID() *uuid.UUID
	GetTokenType() string
	IsExpired() bool
}

func WithClaims(ctx context.Context, claims AuthClaims) context.Context {
	return context.WithValue(ctx, keyClaims, claims)
}

// ClaimsFromContext returns the claims, or nil on an unauthenticated
// request.
func ClaimsFromContext(ctx context.Context) AuthClaims {
	claims, ok := ctx.Value(keyClaims).(AuthClaims)
	if !ok {
		return nil
	}
	return claims
}

// UserIDFromContext extracts the authenticated user id from claims.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	claims := ClaimsFromContext(ctx)
	if claims == nil {
		return uuid.Nil, false
	}
	return claims.GetUserID(), true
}
