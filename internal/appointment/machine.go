package appointment

import (
	"time"

	"github.com/google/uuid"
)

// rule describes which source states and actor a transition accepts.
type rule struct {
	from  []Status
	actor Actor
}

var rules = map[TransitionKind]rule{
	TransitionConfirmed:          {from: []Status{StatusPending}, actor: ActorProvider},
	TransitionCancelled:          {from: []Status{StatusPending}, actor: ActorProvider},
	TransitionRescheduleProposed: {from: []Status{StatusConfirmed, StatusRescheduled}, actor: ActorProvider},
	TransitionRescheduleAccepted: {from: []Status{StatusRescheduled}, actor: ActorSubject},
	TransitionRescheduleDeclined: {from: []Status{StatusRescheduled}, actor: ActorSubject},
	TransitionCompleted:          {from: []Status{StatusConfirmed}, actor: ActorProvider},
}

// Check validates that the appointment's current state and the acting
// role admit the transition. Actor mismatch wins over state mismatch
// so a caller with the wrong role never learns lifecycle details.
func Check(a *Appointment, kind TransitionKind, actor Actor) error {
	r, known := rules[kind]
	if !known {
		return ErrInvalidTransition
	}
	if actor != r.actor {
		return ErrNotAuthorized
	}
	for _, s := range r.from {
		if a.Status == s {
			return nil
		}
	}
	return ErrInvalidTransition
}

// New builds a freshly created appointment in Pending. Booking
// validation happens before this is persisted.
func New(id, providerID, subjectID uuid.UUID, start time.Time, duration time.Duration, purpose string, shareRecords, remote bool, now time.Time) *Appointment {
	return &Appointment{
		ID:           id,
		ProviderID:   providerID,
		SubjectID:    subjectID,
		Start:        start,
		Duration:     duration,
		Purpose:      purpose,
		ShareRecords: shareRecords,
		Remote:       remote,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Decide applies the provider's confirm-or-cancel answer to a pending
// appointment and returns the transition that occurred.
func Decide(a *Appointment, decision Decision, note *string, now time.Time) (TransitionKind, error) {
	kind := TransitionConfirmed
	if decision == DecisionCancel {
		kind = TransitionCancelled
	}
	if err := Check(a, kind, ActorProvider); err != nil {
		return "", err
	}

	if decision == DecisionCancel {
		a.Status = StatusCancelled
	} else {
		a.Status = StatusConfirmed
	}
	if note != nil {
		a.ProviderNote = note
	}
	a.UpdatedAt = now
	return kind, nil
}

// ProposeReschedule records the provider's offer of a new start time.
// A proposal on an already-rescheduled appointment overwrites the
// pending one; proposals never stack. The original slot stays occupied
// until the subject responds.
func ProposeReschedule(a *Appointment, newStart time.Time, note *string, now time.Time) (TransitionKind, error) {
	if err := Check(a, TransitionRescheduleProposed, ActorProvider); err != nil {
		return "", err
	}

	a.Status = StatusRescheduled
	a.Proposal = &RescheduleProposal{Start: newStart, Note: note, ProposedAt: now}
	a.UpdatedAt = now
	return TransitionRescheduleProposed, nil
}

// RespondToReschedule applies the subject's answer. Accepting commits
// the proposed start; declining cancels the appointment outright — it
// does not revert to the previously confirmed time.
func RespondToReschedule(a *Appointment, accept bool, now time.Time) (TransitionKind, error) {
	kind := TransitionRescheduleAccepted
	if !accept {
		kind = TransitionRescheduleDeclined
	}
	if err := Check(a, kind, ActorSubject); err != nil {
		return "", err
	}

	if accept {
		a.Start = a.Proposal.Start
		a.Status = StatusConfirmed
	} else {
		a.Status = StatusCancelled
	}
	a.Proposal = nil
	a.UpdatedAt = now
	return kind, nil
}

// Complete closes out a confirmed appointment. A follow-up, if the
// provider wants one, is a brand-new appointment created through the
// normal booking path, never a mutation of this record.
func Complete(a *Appointment, visitNotes *string, now time.Time) (TransitionKind, error) {
	if err := Check(a, TransitionCompleted, ActorProvider); err != nil {
		return "", err
	}

	a.Status = StatusCompleted
	if visitNotes != nil {
		a.VisitNotes = visitNotes
	}
	a.UpdatedAt = now
	return TransitionCompleted, nil
}
