package authorize

import (
	"context"
	"log/slog"
	"time"

	casbin "github.com/casbin/casbin/v2"

	"github.com/salusapp/salus_backend/pkg/reqctx"
)

// AuditedAuthorization wraps an IAuthorization implementation with audit logging.
type AuditedAuthorization struct {
	inner  IAuthorization
	logger *slog.Logger
}

func NewAuditedAuthorization(inner IAuthorization, logger *slog.Logger) IAuthorization {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditedAuthorization{
		inner:  inner,
		logger: logger,
	}
}

func (a *AuditedAuthorization) Enforce(ctx context.Context, subject GroupSubject, domain Domain, object Resource, action Action) (bool, error) {
	start := time.Now()
	allowed, err := a.inner.Enforce(ctx, subject, domain, object, action)
	duration := time.Since(start)

	attrs := []any{
		"subject", string(subject),
		"domain", string(domain),
		"resource", string(object),
		"action", string(action),
		"allowed", allowed,
		"duration_ms", duration.Milliseconds(),
	}
	if rid := reqctx.RequestIDFromContext(ctx); rid != "" {
		attrs = append(attrs, "request_id", rid)
	}

	if err != nil {
		attrs = append(attrs, "error", err.Error())
		a.logger.Error("authz_decision", attrs...)
	} else if allowed {
		a.logger.Info("authz_decision", attrs...)
	} else {
		a.logger.Warn("authz_decision", attrs...)
	}

	return allowed, err
}

func (a *AuditedAuthorization) MustEnforce(ctx context.Context, subject GroupSubject, domain Domain, object Resource, action Action) error {
	ok, err := a.Enforce(ctx, subject, domain, object, action)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

func (a *AuditedAuthorization) AddRoleForUserInDomain(ctx context.Context, subject GroupSubject, role Role, domain Domain) (bool, error) {
	added, err := a.inner.AddRoleForUserInDomain(ctx, subject, role, domain)
	a.logRoleChange("add_role", subject, role, domain, added, err)
	return added, err
}

func (a *AuditedAuthorization) RemoveRoleForUserInDomain(ctx context.Context, subject GroupSubject, role Role, domain Domain) (bool, error) {
	removed, err := a.inner.RemoveRoleForUserInDomain(ctx, subject, role, domain)
	a.logRoleChange("remove_role", subject, role, domain, removed, err)
	return removed, err
}

func (a *AuditedAuthorization) logRoleChange(op string, subject GroupSubject, role Role, domain Domain, changed bool, err error) {
	attrs := []any{
		"operation", op,
		"subject", string(subject),
		"role", string(role),
		"domain", string(domain),
		"changed", changed,
	}
	if err != nil {
		attrs = append(attrs, "error", err.Error())
		a.logger.Error("authz_role_change", attrs...)
		return
	}
	a.logger.Info("authz_role_change", attrs...)
}

func (a *AuditedAuthorization) GetRolesForUserInDomain(ctx context.Context, subject GroupSubject, domain Domain) ([]Role, error) {
	return a.inner.GetRolesForUserInDomain(ctx, subject, domain)
}

func (a *AuditedAuthorization) AddPermission(ctx context.Context, role Role, domain Domain, object Resource, action Action, effect PolicyEffect) (bool, error) {
	added, err := a.inner.AddPermission(ctx, role, domain, object, action, effect)
	a.logPermissionChange("add_permission", role, domain, object, action, effect, added, err)
	return added, err
}

func (a *AuditedAuthorization) RemovePermission(ctx context.Context, role Role, domain Domain, object Resource, action Action, effect PolicyEffect) (bool, error) {
	removed, err := a.inner.RemovePermission(ctx, role, domain, object, action, effect)
	a.logPermissionChange("remove_permission", role, domain, object, action, effect, removed, err)
	return removed, err
}

func (a *AuditedAuthorization) logPermissionChange(op string, role Role, domain Domain, object Resource, action Action, effect PolicyEffect, changed bool, err error) {
	attrs := []any{
		"operation", op,
		"role", string(role),
		"domain", string(domain),
		"resource", string(object),
		"action", string(action),
		"effect", string(effect),
		"changed", changed,
	}
	if err != nil {
		attrs = append(attrs, "error", err.Error())
		a.logger.Error("authz_permission_change", attrs...)
		return
	}
	a.logger.Info("authz_permission_change", attrs...)
}

func (a *AuditedAuthorization) Raw() *casbin.Enforcer {
	return a.inner.Raw()
}
