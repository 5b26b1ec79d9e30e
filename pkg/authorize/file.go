package authorize

import (
	"context"
	"log/slog"
	"sync/atomic"

	casbin "github.com/casbin/casbin/v2"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
)

// DefaultModel is the RBAC-with-domains model written out by
// `salus system init` when no model file exists yet.
const DefaultModel = `[request_definition]
r = sub, dom, obj, act

[policy_definition]
p = sub, dom, obj, act, eft

[role_definition]
g = _, _, _

[policy_effect]
e = some(where (p.eft == allow)) && !some(where (p.eft == deny))

[matchers]
m = g(r.sub, p.sub, r.dom) && (r.dom == p.dom || p.dom == "*") && (r.obj == p.obj || p.obj == "*") && (r.act == p.act || p.act == "*")
`

// policyLoadHealthy tracks the health state of Casbin policy loading.
// When policy reload fails, this is set to false to trigger health check failures.
var policyLoadHealthy atomic.Bool

func init() {
	policyLoadHealthy.Store(true)
}

// IsPolicyHealthy returns true if the Casbin policy is in a healthy state.
// Returns false if the last policy reload attempt failed.
func IsPolicyHealthy() bool {
	return policyLoadHealthy.Load()
}

// CleanupFunc is a function that cleans up resources.
type CleanupFunc func(ctx context.Context)

// NewEnforcer creates a Casbin enforcer backed by a CSV policy file.
// Returns the enforcer and a cleanup function called on shutdown.
func NewEnforcer(modelPath, policyPath string) (*casbin.Enforcer, CleanupFunc, error) {
	a := fileadapter.NewAdapter(policyPath)

	e, err := casbin.NewEnforcer(modelPath, a)
	if err != nil {
		return nil, nil, err
	}

	e.EnableAutoSave(true)
	e.EnableEnforce(true)

	cleanup := func(ctx context.Context) {
		if err := e.SavePolicy(); err != nil {
			slog.Error("failed to persist casbin policy on shutdown", "error", err)
			policyLoadHealthy.Store(false)
			return
		}
		slog.Info("casbin enforcer cleanup completed")
	}

	return e, cleanup, nil
}
