package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/salusapp/salus_backend/internal/schedule"
)

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusPending     Status = "pending"
	StatusConfirmed   Status = "confirmed"
	StatusRescheduled Status = "rescheduled"
	StatusCancelled   Status = "cancelled"
	StatusCompleted   Status = "completed"
)

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// Actor is the role performing a transition. The engine trusts the
// identity supplied by the session collaborator and enforces only the
// role here.
type Actor string

const (
	ActorSubject  Actor = "subject"
	ActorProvider Actor = "provider"
)

// TransitionKind names each lifecycle transition; one event of this
// kind is emitted per accepted transition.
type TransitionKind string

const (
	TransitionCreated            TransitionKind = "created"
	TransitionConfirmed          TransitionKind = "confirmed"
	TransitionCancelled          TransitionKind = "cancelled"
	TransitionRescheduleProposed TransitionKind = "reschedule_proposed"
	TransitionRescheduleAccepted TransitionKind = "reschedule_accepted"
	TransitionRescheduleDeclined TransitionKind = "reschedule_declined"
	TransitionCompleted          TransitionKind = "completed"
)

// RescheduleProposal is a provider's pending offer of a new start
// time. At most one proposal exists per appointment; a newer proposal
// replaces the previous one.
type RescheduleProposal struct {
	Start      time.Time
	Note       *string
	ProposedAt time.Time
}

// Appointment is the durable booking record. Once a terminal state is
// reached the record is immutable history; it is never hard-deleted.
type Appointment struct {
	ID         uuid.UUID
	ProviderID uuid.UUID
	SubjectID  uuid.UUID

	// Start is the scheduled instant on the provider's local clock.
	Start    time.Time
	Duration time.Duration

	Purpose      string
	ShareRecords bool
	Remote       bool

	Status       Status
	ProviderNote *string
	VisitNotes   *string
	Proposal     *RescheduleProposal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// End is the exclusive end instant of the booked interval.
func (a *Appointment) End() time.Time {
	return a.Start.Add(a.Duration)
}

// Interval is the appointment's occupied range within its day, in the
// conflict-set representation.
func (a *Appointment) Interval() schedule.Interval {
	return schedule.Interval{
		Start: schedule.TimeOfDay{Hour: a.Start.Hour(), Minute: a.Start.Minute()},
		End:   schedule.TimeOfDay{Hour: a.End().Hour(), Minute: a.End().Minute()},
	}
}

// Date is the calendar date the appointment occupies.
func (a *Appointment) Date() schedule.Date {
	return schedule.DateOf(a.Start)
}

// Decision is the provider's answer to a pending appointment.
type Decision string

const (
	DecisionConfirm Decision = "confirm"
	DecisionCancel  Decision = "cancel"
)
