package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// NatsEmitter publishes lifecycle events to NATS. Publishing happens
// after the owning transaction commits, so a crash in between can drop
// an event but never emit one for a transition that did not apply.
type NatsEmitter struct {
	nc *nats.Conn
}

func NewNatsEmitter(nc *nats.Conn) *NatsEmitter {
	return &NatsEmitter{nc: nc}
}

func (p *NatsEmitter) Emit(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal appointment event: %w", err)
	}
	if err := p.nc.Publish(e.Subject(), payload); err != nil {
		return fmt.Errorf("publish %s: %w", e.Subject(), err)
	}
	slog.Debug("appointment event emitted",
		"subject", e.Subject(),
		"appointment_id", e.AppointmentID,
		"kind", e.Kind,
	)
	return nil
}

// NopEmitter discards events; used when NATS is not configured.
type NopEmitter struct{}

func (NopEmitter) Emit(ctx context.Context, e Event) error { return nil }
