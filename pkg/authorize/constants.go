package authorize

import (
	"fmt"
	"regexp"
)

type Action string
type Resource string
type Role string
type Domain string

// ----------------------------
// Actions
// ----------------------------

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"

	// Power actions
	ActionManage Action = "manage" // CRUD + list

	// Appointment lifecycle actions
	ActionDecide     Action = "decide"     // confirm or cancel a request
	ActionReschedule Action = "reschedule" // propose or answer a new time
	ActionComplete   Action = "complete"

	// RBAC-specific actions
	ActionGrant  Action = "grant"
	ActionRevoke Action = "revoke"
)

const (
	WildcardAction Action = "*"
)

var KnownActions = map[Action]struct{}{
	ActionCreate: {}, ActionRead: {}, ActionUpdate: {}, ActionDelete: {}, ActionList: {},
	ActionManage: {},
	ActionDecide: {}, ActionReschedule: {}, ActionComplete: {},
	ActionGrant: {}, ActionRevoke: {},
}

// ----------------------------
// Resources
// ----------------------------

const (
	WildcardResource Resource = "*"

	// Identity / auth
	ResourceUser        Resource = "user"
	ResourceAuthSession Resource = "auth_session"

	// Scheduling
	ResourceSchedule    Resource = "schedule"
	ResourceSlot        Resource = "slot"
	ResourceAppointment Resource = "appointment"

	// Communication
	ResourceNotification Resource = "notification"

	// System / platform admin
	ResourceSystem Resource = "system"
	ResourceAudit  Resource = "audit"
	ResourceRBAC   Resource = "rbac"
)

var KnownResources = map[Resource]struct{}{
	ResourceUser: {}, ResourceAuthSession: {},
	ResourceSchedule: {}, ResourceSlot: {}, ResourceAppointment: {},
	ResourceNotification: {},
	ResourceSystem:       {}, ResourceAudit: {}, ResourceRBAC: {},
}

// ----------------------------
// Roles
// ----------------------------
//
// These are the "policy subjects" we assign to users via grouping policies.

const (
	WildcardRole Role = "*"

	// Platform role (domain = sys)
	RoleSysSuperAdmin Role = "role:sys:superadmin"

	// Care roles
	RoleProvider Role = "role:provider"
	RoleSubject  Role = "role:subject"

	// Private user scope (domain = user:<uuid>)
	RoleUserSelf Role = "role:user:self"
)

var KnownRoles = map[Role]struct{}{
	RoleSysSuperAdmin: {},
	RoleProvider:      {},
	RoleSubject:       {},
	RoleUserSelf:      {},
}

// RoleDisplayNames gives human-readable role names for admin UIs.
var RoleDisplayNames = map[Role]string{
	RoleSysSuperAdmin: "Platform Superadmin",
	RoleProvider:      "Provider",
	RoleSubject:       "Client",
	RoleUserSelf:      "Self",
}

// ----------------------------
// Domains
// ----------------------------

const (
	DomainSys Domain = "sys"
)

// Domain prefixes (for exact domains we generate per entity)
const (
	DomainPrefixProvider Domain = "provider:"
	DomainPrefixUser     Domain = "user:"
)

const (
	WildcardDomain Domain = "*"
)

var (
	reUUID = regexp.MustCompile(`^[0-9a-fA-F-]{36}$`)
)

// Domain builders (typed, safe)
func ProviderDomain(providerID string) Domain {
	return Domain(fmt.Sprintf("%s%s", DomainPrefixProvider, providerID))
}

func UserDomain(userID string) Domain {
	return Domain(fmt.Sprintf("%s%s", DomainPrefixUser, userID))
}

// IsValidDomain checks whether d is a recognised domain string.
func IsValidDomain(d Domain) bool {
	if d == DomainSys || d == WildcardDomain {
		return true
	}

	s := string(d)
	switch {
	case len(s) > len(DomainPrefixProvider) && s[:len(DomainPrefixProvider)] == string(DomainPrefixProvider):
		return reUUID.MatchString(s[len(DomainPrefixProvider):])
	case len(s) > len(DomainPrefixUser) && s[:len(DomainPrefixUser)] == string(DomainPrefixUser):
		return reUUID.MatchString(s[len(DomainPrefixUser):])
	default:
		return false
	}
}

// ----------------------------
// Casbin tuple helpers
// ----------------------------

type PolicyEffect string

const (
	EffectAllow PolicyEffect = "allow"
	EffectDeny  PolicyEffect = "deny"
)

// GroupSubject is the g.sub in Casbin: a concrete principal id (user_id or service_id).
type GroupSubject string

// Grouping rows: g, user_id, role, domain
type GroupingPolicy struct {
	Subject GroupSubject
	Role    Role
	Domain  Domain
}

// Permission rows: p, role, domain, resource, action, eft
type PermissionPolicy struct {
	Subject Role
	Domain  Domain
	Object  Resource
	Action  Action
	Effect  PolicyEffect
}
