package sms

import (
	"context"
	"testing"

	"github.com/salusapp/salus_backend/config"
)

func TestNewFromConfig_Disabled(t *testing.T) {
	client, err := NewFromConfig(config.SMSConfig{Enabled: false})
	if err != nil {
		t.Fatalf("NewFromConfig failed: %v", err)
	}

	if client.IsEnabled() {
		t.Error("Expected client to be disabled")
	}
}

func TestNewFromConfig_EnabledWithoutAPIKey(t *testing.T) {
	cfg := config.SMSConfig{
		Enabled: true,
		SMSIR: config.SMSIRConfig{
			APIKey:     "",
			SecretKey:  "",
			TemplateID: "test-template",
		},
	}

	_, err := NewFromConfig(cfg)
	if err == nil {
		t.Error("Expected error when API key is missing")
	}
}

func TestNewFromConfig_EnabledWithAPIKey(t *testing.T) {
	cfg := config.SMSConfig{
		Enabled: true,
		SMSIR: config.SMSIRConfig{
			APIKey:     "test-api-key",
			SecretKey:  "test-secret-key",
			TemplateID: "test-template",
		},
	}

	client, err := NewFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewFromConfig failed: %v", err)
	}

	if !client.IsEnabled() {
		t.Error("Expected client to be enabled")
	}
}

func TestNormalizePhone(t *testing.T) {
	client := &Client{defaultRegion: "US"}

	tests := []struct {
		name        string
		raw         string
		want        string
		expectError bool
	}{
		{"already E.164", "+14155552671", "+14155552671", false},
		{"national format", "(415) 555-2671", "+14155552671", false},
		{"garbage", "not-a-number", "", true},
		{"too short", "12", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := client.NormalizePhone(tt.raw)
			if tt.expectError {
				if err == nil {
					t.Error("Expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizePhone failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSendTemplate_DisabledClient(t *testing.T) {
	client := &Client{enabled: false, defaultRegion: "US"}

	err := client.SendTemplate(context.Background(), "+14155552671", "template-id", map[string]string{"when": "tomorrow"})
	if err != nil {
		t.Errorf("Expected no error for disabled client, got: %v", err)
	}
}

func TestSendTemplate_Validation(t *testing.T) {
	client := &Client{enabled: true, defaultRegion: "US"}

	tests := []struct {
		name       string
		phone      string
		templateID string
	}{
		{"empty phone number", "", "template-id"},
		{"empty template ID", "+14155552671", ""},
		{"invalid phone", "banana", "template-id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.SendTemplate(context.Background(), tt.phone, tt.templateID, nil)
			if err == nil {
				t.Error("Expected error but got nil")
			}
		})
	}
}

func TestIsEnabled(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
	}{
		{"enabled client", true},
		{"disabled client", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &Client{enabled: tt.enabled}
			if client.IsEnabled() != tt.enabled {
				t.Errorf("Expected IsEnabled() = %v, got %v", tt.enabled, client.IsEnabled())
			}
		})
	}
}
