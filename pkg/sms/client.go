package sms

import (
	"context"
	"fmt"

	"github.com/arsmn/go-smsir/smsir"
	"github.com/nyaruka/phonenumbers"

	"github.com/salusapp/salus_backend/config"
)

// Client provides SMS sending functionality via sms.ir.
type Client struct {
	client        *smsir.Client
	enabled       bool
	defaultRegion string
}

// NewFromConfig creates a new SMS client from the application configuration.
// If SMS is disabled, returns a client that no-ops on all operations.
func NewFromConfig(cfg config.SMSConfig) (*Client, error) {
	region := cfg.DefaultRegion
	if region == "" {
		region = "US"
	}

	if !cfg.Enabled {
		return &Client{enabled: false, defaultRegion: region}, nil
	}

	if cfg.SMSIR.APIKey == "" {
		return nil, fmt.Errorf("sms.ir API key required when SMS enabled")
	}

	client := smsir.NewClient().WithAuthentication(cfg.SMSIR.APIKey, cfg.SMSIR.SecretKey)

	return &Client{
		client:        client,
		enabled:       true,
		defaultRegion: region,
	}, nil
}

// NormalizePhone parses an arbitrary phone string and returns the E.164
// form. Numbers without a country code are interpreted in the
// configured default region.
func (c *Client) NormalizePhone(raw string) (string, error) {
	num, err := phonenumbers.Parse(raw, c.defaultRegion)
	if err != nil {
		return "", fmt.Errorf("parse phone %q: %w", raw, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("invalid phone number: %q", raw)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// SendTemplate sends one templated message through sms.ir's fast-send
// API. Params map template parameter names to values. If SMS is
// disabled this is a no-op and returns nil.
func (c *Client) SendTemplate(ctx context.Context, phoneNumber, templateID string, params map[string]string) error {
	if !c.enabled {
		// No-op when disabled (useful for development)
		return nil
	}

	if phoneNumber == "" {
		return fmt.Errorf("phone number is required")
	}
	if templateID == "" {
		return fmt.Errorf("template ID is required")
	}

	normalized, err := c.NormalizePhone(phoneNumber)
	if err != nil {
		return err
	}

	req := &smsir.UltraFastSendRequest{
		Mobile:     normalized,
		TemplateID: templateID,
	}
	for k, v := range params {
		req.Parameters = append(req.Parameters, smsir.UltraFastParameter{Key: k, Value: v})
	}

	if _, err := c.client.Verification.UltraFastSend(ctx, req); err != nil {
		return fmt.Errorf("sms.ir send failed: %w", err)
	}

	return nil
}

// SendAppointmentAlert delivers a short lifecycle alert ("confirmed",
// "cancelled", ...) with the appointment time filled into the template.
func (c *Client) SendAppointmentAlert(ctx context.Context, phoneNumber, templateID, event, when string) error {
	return c.SendTemplate(ctx, phoneNumber, templateID, map[string]string{
		"event": event,
		"when":  when,
	})
}

// IsEnabled returns whether SMS sending is enabled.
func (c *Client) IsEnabled() bool {
	return c.enabled
}
