package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/salusapp/salus_backend/internal/appointment"
)

// SubjectPrefix is the NATS subject root for appointment lifecycle
// events: salus.appointment.<kind>.<appointment_id>.
const SubjectPrefix = "salus.appointment"

// Event is the structured record emitted once per accepted lifecycle
// transition. Delivery is at-least-once; consumers own de-duplication
// and read state.
type Event struct {
	AppointmentID uuid.UUID                  `json:"appointment_id"`
	ProviderID    uuid.UUID                  `json:"provider_id"`
	SubjectID     uuid.UUID                  `json:"subject_id"`
	Kind          appointment.TransitionKind `json:"kind"`
	Actor         appointment.Actor          `json:"actor"`
	OccurredAt    time.Time                  `json:"occurred_at"`
}

// Subject returns the NATS subject this event publishes to.
func (e Event) Subject() string {
	return fmt.Sprintf("%s.%s.%s", SubjectPrefix, e.Kind, e.AppointmentID)
}

// FromTransition builds the event for an accepted transition.
func FromTransition(a *appointment.Appointment, kind appointment.TransitionKind, actor appointment.Actor, at time.Time) Event {
	return Event{
		AppointmentID: a.ID,
		ProviderID:    a.ProviderID,
		SubjectID:     a.SubjectID,
		Kind:          kind,
		Actor:         actor,
		OccurredAt:    at,
	}
}

// Emitter publishes lifecycle events to the notification collaborator.
type Emitter interface {
	Emit(ctx context.Context, e Event) error
}

// Decode parses an event payload received from the wire.
func Decode(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, fmt.Errorf("decode appointment event: %w", err)
	}
	return e, nil
}
