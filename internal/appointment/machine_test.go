package appointment

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

var testNow = time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC)

func newTestAppointment(t *testing.T, status Status) *Appointment {
	t.Helper()
	a := New(
		uuid.New(), uuid.New(), uuid.New(),
		testNow.Add(48*time.Hour), 30*time.Minute,
		"initial consultation", false, true,
		testNow,
	)
	a.Status = status
	if status == StatusRescheduled {
		a.Proposal = &RescheduleProposal{Start: testNow.Add(72 * time.Hour), ProposedAt: testNow}
	}
	return a
}

func TestNewStartsPending(t *testing.T) {
	a := newTestAppointment(t, StatusPending)
	if a.Status != StatusPending {
		t.Errorf("new appointment status = %s, want pending", a.Status)
	}
	if a.End() != a.Start.Add(30*time.Minute) {
		t.Errorf("End() = %v, want start+30m", a.End())
	}
}

func TestDecide(t *testing.T) {
	t.Run("confirm pending", func(t *testing.T) {
		a := newTestAppointment(t, StatusPending)
		note := "bring previous lab results"
		kind, err := Decide(a, DecisionConfirm, &note, testNow)
		if err != nil {
			t.Fatalf("Decide failed: %v", err)
		}
		if kind != TransitionConfirmed {
			t.Errorf("kind = %s, want confirmed", kind)
		}
		if a.Status != StatusConfirmed {
			t.Errorf("status = %s, want confirmed", a.Status)
		}
		if a.ProviderNote == nil || *a.ProviderNote != note {
			t.Error("provider note not stored")
		}
	})

	t.Run("cancel pending", func(t *testing.T) {
		a := newTestAppointment(t, StatusPending)
		kind, err := Decide(a, DecisionCancel, nil, testNow)
		if err != nil {
			t.Fatalf("Decide failed: %v", err)
		}
		if kind != TransitionCancelled || a.Status != StatusCancelled {
			t.Errorf("kind=%s status=%s, want cancelled/cancelled", kind, a.Status)
		}
	})

	t.Run("second decide rejected", func(t *testing.T) {
		a := newTestAppointment(t, StatusPending)
		if _, err := Decide(a, DecisionConfirm, nil, testNow); err != nil {
			t.Fatalf("first Decide failed: %v", err)
		}
		if _, err := Decide(a, DecisionConfirm, nil, testNow); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("second Decide err = %v, want ErrInvalidTransition", err)
		}
	})

	t.Run("decide on terminal states rejected", func(t *testing.T) {
		for _, st := range []Status{StatusCancelled, StatusCompleted} {
			a := newTestAppointment(t, st)
			if _, err := Decide(a, DecisionConfirm, nil, testNow); !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("Decide on %s err = %v, want ErrInvalidTransition", st, err)
			}
		}
	})
}

func TestProposeReschedule(t *testing.T) {
	t.Run("confirmed appointment gains proposal", func(t *testing.T) {
		a := newTestAppointment(t, StatusConfirmed)
		newStart := testNow.Add(96 * time.Hour)
		kind, err := ProposeReschedule(a, newStart, nil, testNow)
		if err != nil {
			t.Fatalf("ProposeReschedule failed: %v", err)
		}
		if kind != TransitionRescheduleProposed {
			t.Errorf("kind = %s, want reschedule_proposed", kind)
		}
		if a.Status != StatusRescheduled {
			t.Errorf("status = %s, want rescheduled", a.Status)
		}
		if a.Proposal == nil || !a.Proposal.Start.Equal(newStart) {
			t.Error("proposal not stored")
		}
	})

	t.Run("second proposal overwrites the pending one", func(t *testing.T) {
		a := newTestAppointment(t, StatusConfirmed)
		first := testNow.Add(96 * time.Hour)
		second := testNow.Add(120 * time.Hour)
		if _, err := ProposeReschedule(a, first, nil, testNow); err != nil {
			t.Fatalf("first proposal failed: %v", err)
		}
		if _, err := ProposeReschedule(a, second, nil, testNow.Add(time.Hour)); err != nil {
			t.Fatalf("second proposal failed: %v", err)
		}
		if !a.Proposal.Start.Equal(second) {
			t.Errorf("proposal start = %v, want the overwriting %v", a.Proposal.Start, second)
		}
	})

	t.Run("pending appointment rejected", func(t *testing.T) {
		a := newTestAppointment(t, StatusPending)
		if _, err := ProposeReschedule(a, testNow.Add(96*time.Hour), nil, testNow); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("err = %v, want ErrInvalidTransition", err)
		}
	})
}

func TestRespondToReschedule(t *testing.T) {
	t.Run("accept commits the proposed start", func(t *testing.T) {
		a := newTestAppointment(t, StatusRescheduled)
		proposed := a.Proposal.Start
		kind, err := RespondToReschedule(a, true, testNow)
		if err != nil {
			t.Fatalf("RespondToReschedule failed: %v", err)
		}
		if kind != TransitionRescheduleAccepted {
			t.Errorf("kind = %s, want reschedule_accepted", kind)
		}
		if a.Status != StatusConfirmed {
			t.Errorf("status = %s, want confirmed", a.Status)
		}
		if !a.Start.Equal(proposed) {
			t.Errorf("start = %v, want proposed %v", a.Start, proposed)
		}
		if a.Proposal != nil {
			t.Error("proposal should be cleared after acceptance")
		}
	})

	t.Run("decline cancels, never reverts", func(t *testing.T) {
		a := newTestAppointment(t, StatusRescheduled)
		original := a.Start
		kind, err := RespondToReschedule(a, false, testNow)
		if err != nil {
			t.Fatalf("RespondToReschedule failed: %v", err)
		}
		if kind != TransitionRescheduleDeclined {
			t.Errorf("kind = %s, want reschedule_declined", kind)
		}
		if a.Status != StatusCancelled {
			t.Errorf("status = %s, want cancelled", a.Status)
		}
		if !a.Start.Equal(original) {
			t.Errorf("start mutated on decline: %v", a.Start)
		}
	})

	t.Run("respond without outstanding proposal rejected", func(t *testing.T) {
		a := newTestAppointment(t, StatusConfirmed)
		if _, err := RespondToReschedule(a, true, testNow); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("err = %v, want ErrInvalidTransition", err)
		}
	})
}

func TestComplete(t *testing.T) {
	t.Run("confirmed appointment completes", func(t *testing.T) {
		a := newTestAppointment(t, StatusConfirmed)
		notes := "follow-up in six weeks"
		kind, err := Complete(a, &notes, testNow)
		if err != nil {
			t.Fatalf("Complete failed: %v", err)
		}
		if kind != TransitionCompleted || a.Status != StatusCompleted {
			t.Errorf("kind=%s status=%s, want completed/completed", kind, a.Status)
		}
		if a.VisitNotes == nil || *a.VisitNotes != notes {
			t.Error("visit notes not stored")
		}
	})

	t.Run("pending appointment cannot complete", func(t *testing.T) {
		a := newTestAppointment(t, StatusPending)
		if _, err := Complete(a, nil, testNow); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("err = %v, want ErrInvalidTransition", err)
		}
	})
}

func TestCheckActorPermissions(t *testing.T) {
	cases := []struct {
		kind  TransitionKind
		actor Actor
	}{
		{TransitionConfirmed, ActorSubject},
		{TransitionCancelled, ActorSubject},
		{TransitionRescheduleProposed, ActorSubject},
		{TransitionRescheduleAccepted, ActorProvider},
		{TransitionRescheduleDeclined, ActorProvider},
		{TransitionCompleted, ActorSubject},
	}
	for _, tc := range cases {
		t.Run(string(tc.kind)+"_by_"+string(tc.actor), func(t *testing.T) {
			a := newTestAppointment(t, StatusPending)
			a.Status = StatusConfirmed
			if tc.kind == TransitionConfirmed || tc.kind == TransitionCancelled {
				a.Status = StatusPending
			}
			if tc.kind == TransitionRescheduleAccepted || tc.kind == TransitionRescheduleDeclined {
				a.Status = StatusRescheduled
			}
			if err := Check(a, tc.kind, tc.actor); !errors.Is(err, ErrNotAuthorized) {
				t.Errorf("Check(%s, %s) err = %v, want ErrNotAuthorized", tc.kind, tc.actor, err)
			}
		})
	}
}

func TestTerminalStatuses(t *testing.T) {
	for st, want := range map[Status]bool{
		StatusPending:     false,
		StatusConfirmed:   false,
		StatusRescheduled: false,
		StatusCancelled:   true,
		StatusCompleted:   true,
	} {
		if got := st.Terminal(); got != want {
			t.Errorf("Terminal(%s) = %v, want %v", st, got, want)
		}
	}
}
