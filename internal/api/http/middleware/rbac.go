package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/salusapp/salus_backend/pkg/authorize"
	pasetotoken "github.com/salusapp/salus_backend/pkg/paseto"
)

// DomainResolver picks the Casbin domain an endpoint enforces in. It
// returns an empty domain when the request carries no usable scope,
// which fails the check.
type DomainResolver func(c fiber.Ctx) authorize.Domain

// DomainSys enforces in the system domain.
func DomainSys(fiber.Ctx) authorize.Domain {
	return authorize.DomainSys
}

// DomainProviderParam enforces in the provider domain named by the
// :providerID route parameter.
func DomainProviderParam(c fiber.Ctx) authorize.Domain {
	id := c.Params("providerID")
	if id == "" {
		return ""
	}
	return authorize.ProviderDomain(id)
}

// DomainSelf enforces in the authenticated user's private domain.
func DomainSelf(c fiber.Ctx) authorize.Domain {
	claims, ok := pasetotoken.ClaimsFromFiber(c)
	if !ok {
		return ""
	}
	return authorize.UserDomain(claims.UserID.String())
}

// RequirePermission checks that the authenticated user may perform
// action on resource inside the resolved domain.
func RequirePermission(auth authorize.IAuthorization, resolve DomainResolver, resource authorize.Resource, action authorize.Action) fiber.Handler {
	return func(c fiber.Ctx) error {
		claims, ok := pasetotoken.ClaimsFromFiber(c)
		if !ok {
			return fiber.ErrUnauthorized
		}

		domain := resolve(c)
		if domain == "" {
			return fiber.ErrForbidden
		}

		subject := authorize.GroupSubject(claims.UserID.String())
		if err := auth.MustEnforce(c.Context(), subject, domain, resource, action); err != nil {
			if errors.Is(err, authorize.ErrForbidden) {
				return fiber.ErrForbidden
			}
			return err
		}

		return c.Next()
	}
}
