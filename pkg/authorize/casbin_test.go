package authorize

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestAuthorization(t *testing.T) IAuthorization {
	t.Helper()

	dir := t.TempDir()
	modelPath := filepath.Join(dir, "model.conf")
	policyPath := filepath.Join(dir, "policy.csv")

	if err := os.WriteFile(modelPath, []byte(DefaultModel), 0o600); err != nil {
		t.Fatalf("write model: %v", err)
	}
	if err := os.WriteFile(policyPath, nil, 0o600); err != nil {
		t.Fatalf("write policy: %v", err)
	}

	e, cleanup, err := NewEnforcer(modelPath, policyPath)
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}
	t.Cleanup(func() { cleanup(context.Background()) })

	auth, err := NewAuthorization(e)
	if err != nil {
		t.Fatalf("NewAuthorization: %v", err)
	}
	if err := SeedDefaultPolicies(context.Background(), auth); err != nil {
		t.Fatalf("SeedDefaultPolicies: %v", err)
	}
	return auth
}

const (
	testProviderID = "0194a6a0-aaaa-7bbb-8ccc-ddddeeee0001"
	testUserID     = "0194a6a0-aaaa-7bbb-8ccc-ddddeeee0002"
	testAdminID    = "0194a6a0-aaaa-7bbb-8ccc-ddddeeee0003"
)

func TestProviderCanManageOwnSchedule(t *testing.T) {
	auth := newTestAuthorization(t)
	ctx := context.Background()

	if err := AssignProviderRole(ctx, auth, testProviderID, testProviderID); err != nil {
		t.Fatalf("AssignProviderRole: %v", err)
	}

	dom := ProviderDomain(testProviderID)
	ok, err := auth.Enforce(ctx, GroupSubject(testProviderID), dom, ResourceSchedule, ActionManage)
	if err != nil {
		t.Fatalf("Enforce: %v", err)
	}
	if !ok {
		t.Fatal("provider should manage own schedule")
	}

	ok, err = auth.Enforce(ctx, GroupSubject(testProviderID), dom, ResourceAppointment, ActionDecide)
	if err != nil {
		t.Fatalf("Enforce: %v", err)
	}
	if !ok {
		t.Fatal("provider should decide appointments in own domain")
	}
}

func TestSubjectCannotManageSchedule(t *testing.T) {
	auth := newTestAuthorization(t)
	ctx := context.Background()

	if err := AssignSubjectRole(ctx, auth, testUserID, testProviderID); err != nil {
		t.Fatalf("AssignSubjectRole: %v", err)
	}

	dom := ProviderDomain(testProviderID)
	ok, err := auth.Enforce(ctx, GroupSubject(testUserID), dom, ResourceSchedule, ActionManage)
	if err != nil {
		t.Fatalf("Enforce: %v", err)
	}
	if ok {
		t.Fatal("subject must not manage the provider's schedule")
	}

	ok, err = auth.Enforce(ctx, GroupSubject(testUserID), dom, ResourceAppointment, ActionCreate)
	if err != nil {
		t.Fatalf("Enforce: %v", err)
	}
	if !ok {
		t.Fatal("subject should be able to request appointments")
	}
}

func TestSuperadminBypass(t *testing.T) {
	auth := newTestAuthorization(t)
	ctx := context.Background()

	if err := AssignSystemRole(ctx, auth, testAdminID, RoleSysSuperAdmin); err != nil {
		t.Fatalf("AssignSystemRole: %v", err)
	}

	ok, err := auth.Enforce(ctx, GroupSubject(testAdminID), ProviderDomain(testProviderID), ResourceSchedule, ActionDelete)
	if err != nil {
		t.Fatalf("Enforce: %v", err)
	}
	if !ok {
		t.Fatal("superadmin should bypass domain checks")
	}
}

func TestEnforceRejectsUnknownResource(t *testing.T) {
	auth := newTestAuthorization(t)

	_, err := auth.Enforce(context.Background(), GroupSubject(testUserID), DomainSys, Resource("warehouse"), ActionRead)
	if !errors.Is(err, ErrInvalidArgs) {
		t.Fatalf("expected ErrInvalidArgs, got %v", err)
	}
}

func TestMustEnforceReturnsForbidden(t *testing.T) {
	auth := newTestAuthorization(t)

	err := auth.MustEnforce(context.Background(), GroupSubject(testUserID), ProviderDomain(testProviderID), ResourceSchedule, ActionDelete)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
