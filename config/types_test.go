package config

import "testing"

func validConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:   "localhost",
			DBName: "salus",
		},
		Server: ServerConfig{
			Port: 8080,
		},
		Scheduling: SchedulingConfig{
			DefaultGranularityMinutes: 30,
		},
	}
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidateRejectsIncompleteConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing database host", func(c *Config) { c.Database.Host = "" }},
		{"missing database name", func(c *Config) { c.Database.DBName = "" }},
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"negative granularity", func(c *Config) { c.Scheduling.DefaultGranularityMinutes = -1 }},
		{"negative lock ttl", func(c *Config) { c.Scheduling.BookingLockTTLSeconds = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("Validate() = nil, want error")
			}
		})
	}
}
