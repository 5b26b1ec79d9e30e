package authorize

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/salusapp/salus_backend/pkg/reqctx"
)

var (
	ErrNoSubjectInContext = errors.New("no subject found in context")
)

// SubjectFromContext extracts the GroupSubject (user ID) from context.
func SubjectFromContext(ctx context.Context) (GroupSubject, error) {
	claims := reqctx.ClaimsFromContext(ctx)
	if claims == nil {
		return "", ErrNoSubjectInContext
	}
	userID := claims.GetUserID()
	if userID == uuid.Nil {
		return "", ErrNoSubjectInContext
	}
	return GroupSubject(userID.String()), nil
}

// DomainFromResource determines the appropriate domain based on resource ownership.
// - If providerID is provided, returns provider:<uuid> domain
// - If userID is provided, returns user:<uuid> domain
// - Otherwise returns sys domain
func DomainFromResource(providerID, userID *string) Domain {
	if providerID != nil && *providerID != "" {
		return ProviderDomain(*providerID)
	}
	if userID != nil && *userID != "" {
		return UserDomain(*userID)
	}
	return DomainSys
}

