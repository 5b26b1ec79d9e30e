package authorize

import "github.com/salusapp/salus_backend/config"

// Config holds configuration for the authorization system
type Config struct {
	// CasbinModelPath is the path to the Casbin model configuration file
	CasbinModelPath string

	// CasbinPolicyPath is the path to the CSV policy file
	CasbinPolicyPath string

	// SuperadminBypass allows superadmins to bypass all authorization checks
	SuperadminBypass bool
}

// DefaultConfig returns sensible defaults for authorization configuration
func DefaultConfig() Config {
	return Config{
		CasbinModelPath:  "casbin_model.conf",
		CasbinPolicyPath: "casbin_policy.csv",
		SuperadminBypass: true,
	}
}

// FromCentralConfig converts central config.AuthorizationConfig to package Config
func FromCentralConfig(c config.AuthorizationConfig) Config {
	cfg := DefaultConfig()
	if c.CasbinModelPath != "" {
		cfg.CasbinModelPath = c.CasbinModelPath
	}
	if c.CasbinPolicyPath != "" {
		cfg.CasbinPolicyPath = c.CasbinPolicyPath
	}
	cfg.SuperadminBypass = c.SuperadminBypass
	return cfg
}
