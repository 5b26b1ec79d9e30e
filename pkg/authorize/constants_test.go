package authorize

import "testing"

func TestIsValidDomain(t *testing.T) {
	const id = "0194a6a0-1111-7222-8333-444455556666"

	cases := []struct {
		name string
		d    Domain
		want bool
	}{
		{"sys", DomainSys, true},
		{"wildcard", WildcardDomain, true},
		{"provider", ProviderDomain(id), true},
		{"user", UserDomain(id), true},
		{"provider without id", Domain("provider:"), false},
		{"provider with junk id", Domain("provider:not-a-uuid"), false},
		{"unknown prefix", Domain("clinic:" + id), false},
		{"empty", Domain(""), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsValidDomain(tc.d); got != tc.want {
				t.Fatalf("IsValidDomain(%q) = %v, want %v", tc.d, got, tc.want)
			}
		})
	}
}

func TestDomainBuilders(t *testing.T) {
	const id = "0194a6a0-1111-7222-8333-444455556666"

	if got := ProviderDomain(id); got != Domain("provider:"+id) {
		t.Fatalf("ProviderDomain = %q", got)
	}
	if got := UserDomain(id); got != Domain("user:"+id) {
		t.Fatalf("UserDomain = %q", got)
	}
}

func TestKnownSetsContainDeclaredConstants(t *testing.T) {
	for _, a := range []Action{ActionCreate, ActionDecide, ActionReschedule, ActionComplete, ActionManage} {
		if _, ok := KnownActions[a]; !ok {
			t.Errorf("action %q missing from KnownActions", a)
		}
	}
	for _, r := range []Resource{ResourceSchedule, ResourceSlot, ResourceAppointment, ResourceNotification} {
		if _, ok := KnownResources[r]; !ok {
			t.Errorf("resource %q missing from KnownResources", r)
		}
	}
	for _, r := range []Role{RoleSysSuperAdmin, RoleProvider, RoleSubject, RoleUserSelf} {
		if _, ok := KnownRoles[r]; !ok {
			t.Errorf("role %q missing from KnownRoles", r)
		}
	}
}
