package authorize

import (
	"context"
	"log/slog"
)

// SeedDefaultPolicies sets up the baseline RBAC policies for the system.
func SeedDefaultPolicies(ctx context.Context, auth IAuthorization) error {
	logger := slog.Default()

	// System-level policies (domain: sys)
	sysPolicies := []PermissionPolicy{
		// SuperAdmin: god mode
		{RoleSysSuperAdmin, DomainSys, WildcardResource, WildcardAction, EffectAllow},
	}

	// Provider policies (domain: provider:*)
	providerPolicies := []PermissionPolicy{
		// Providers own their schedule and decide on their appointments.
		{RoleProvider, WildcardDomain, ResourceSchedule, ActionManage, EffectAllow},
		{RoleProvider, WildcardDomain, ResourceSlot, ActionList, EffectAllow},
		{RoleProvider, WildcardDomain, ResourceAppointment, ActionRead, EffectAllow},
		{RoleProvider, WildcardDomain, ResourceAppointment, ActionList, EffectAllow},
		{RoleProvider, WildcardDomain, ResourceAppointment, ActionDecide, EffectAllow},
		{RoleProvider, WildcardDomain, ResourceAppointment, ActionReschedule, EffectAllow},
		{RoleProvider, WildcardDomain, ResourceAppointment, ActionComplete, EffectAllow},
	}

	// Client policies (domain: user:*)
	subjectPolicies := []PermissionPolicy{
		{RoleSubject, WildcardDomain, ResourceSlot, ActionList, EffectAllow},
		{RoleSubject, WildcardDomain, ResourceAppointment, ActionCreate, EffectAllow},
		{RoleSubject, WildcardDomain, ResourceAppointment, ActionRead, EffectAllow},
		{RoleSubject, WildcardDomain, ResourceAppointment, ActionList, EffectAllow},
		{RoleSubject, WildcardDomain, ResourceAppointment, ActionReschedule, EffectAllow},
	}

	// User-level policies (domain: user:*)
	userPolicies := []PermissionPolicy{
		{RoleUserSelf, WildcardDomain, ResourceNotification, ActionManage, EffectAllow},
		{RoleUserSelf, WildcardDomain, ResourceAuthSession, ActionManage, EffectAllow},
	}

	allPolicies := sysPolicies
	allPolicies = append(allPolicies, providerPolicies...)
	allPolicies = append(allPolicies, subjectPolicies...)
	allPolicies = append(allPolicies, userPolicies...)

	for _, p := range allPolicies {
		added, err := auth.AddPermission(ctx, p.Subject, p.Domain, p.Object, p.Action, p.Effect)
		if err != nil {
			logger.Error("failed to add policy", "policy", p, "error", err)
			return err
		}
		if added {
			logger.Debug("added policy", "role", p.Subject, "domain", p.Domain, "resource", p.Object, "action", p.Action)
		}
	}

	logger.Info("seeded default RBAC policies", "count", len(allPolicies))
	return nil
}

// AssignUserSelfRole assigns the user:self role in the user's private domain.
// Call this when creating a new user.
func AssignUserSelfRole(ctx context.Context, auth IAuthorization, userID string) error {
	_, err := auth.AddRoleForUserInDomain(ctx, GroupSubject(userID), RoleUserSelf, UserDomain(userID))
	return err
}

// AssignProviderRole grants a user the provider role over their own
// provider domain.
func AssignProviderRole(ctx context.Context, auth IAuthorization, userID, providerID string) error {
	_, err := auth.AddRoleForUserInDomain(ctx, GroupSubject(userID), RoleProvider, ProviderDomain(providerID))
	return err
}

// AssignSubjectRole grants a user the client role for booking with a
// given provider.
func AssignSubjectRole(ctx context.Context, auth IAuthorization, userID, providerID string) error {
	_, err := auth.AddRoleForUserInDomain(ctx, GroupSubject(userID), RoleSubject, ProviderDomain(providerID))
	return err
}

// AssignSystemRole assigns a system-level role to a user.
// RoleSysSuperAdmin should be assigned with caution.
func AssignSystemRole(ctx context.Context, auth IAuthorization, userID string, role Role) error {
	if role != RoleSysSuperAdmin {
		return ErrInvalidArgs
	}
	_, err := auth.AddRoleForUserInDomain(ctx, GroupSubject(userID), role, DomainSys)
	return err
}

// RemoveSystemRole removes a system-level role from a user.
func RemoveSystemRole(ctx context.Context, auth IAuthorization, userID string, role Role) error {
	_, err := auth.RemoveRoleForUserInDomain(ctx, GroupSubject(userID), role, DomainSys)
	return err
}
