package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/salusapp/salus_backend/internal/appointment"
	"github.com/salusapp/salus_backend/internal/events"
	"github.com/salusapp/salus_backend/internal/repo"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type ListRequest struct {
	UnreadOnly bool
	Page       int
	PerPage    int
}

// ---------------------------------------------------------------------------
// Store
// ---------------------------------------------------------------------------

type Store interface {
	Create(ctx context.Context, n *repo.Notification) error
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]*repo.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error)
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	List(ctx context.Context, userID uuid.UUID, req ListRequest) ([]*repo.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error)

	// RecordEvent materializes one feed row per interested party for a
	// lifecycle event. Called by the event worker, not by handlers.
	RecordEvent(ctx context.Context, ev events.Event) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type notificationService struct {
	store Store
	now   func() time.Time
}

func New(store Store) Service {
	return &notificationService{store: store, now: time.Now}
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID, req ListRequest) ([]*repo.Notification, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PerPage < 1 || req.PerPage > 100 {
		req.PerPage = 20
	}
	offset := (req.Page - 1) * req.PerPage

	rows, err := s.store.List(ctx, userID, req.UnreadOnly, req.PerPage, offset)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return rows, nil
}

func (s *notificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.store.CountUnread(ctx, userID)
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	if err := s.store.MarkRead(ctx, userID, notificationID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error) {
	n, err := s.store.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	return n, nil
}

func (s *notificationService) RecordEvent(ctx context.Context, ev events.Event) error {
	for _, userID := range recipients(ev) {
		n := &repo.Notification{
			ID:     uuid.Must(uuid.NewV7()),
			UserID: userID,
			Type:   "appointment." + string(ev.Kind),
			Title:  titleFor(ev),
			Body:   bodyFor(ev),
			Data: map[string]any{
				"appointment_id": ev.AppointmentID.String(),
				"kind":           string(ev.Kind),
				"actor":          string(ev.Actor),
			},
			CreatedAt: s.now(),
		}
		if err := s.store.Create(ctx, n); err != nil {
			return fmt.Errorf("record event notification: %w", err)
		}
	}
	return nil
}

// recipients picks who gets a feed row: the party that did not perform
// the transition, and both parties for cancellations.
func recipients(ev events.Event) []uuid.UUID {
	switch ev.Kind {
	case appointment.TransitionCancelled, appointment.TransitionRescheduleDeclined:
		return []uuid.UUID{ev.ProviderID, ev.SubjectID}
	}
	if ev.Actor == appointment.ActorProvider {
		return []uuid.UUID{ev.SubjectID}
	}
	return []uuid.UUID{ev.ProviderID}
}

func bodyFor(ev events.Event) string {
	who := "The other party"
	switch ev.Actor {
	case appointment.ActorProvider:
		who = "The provider"
	case appointment.ActorSubject:
		who = "The requester"
	}
	switch ev.Kind {
	case appointment.TransitionCreated:
		return "A new appointment has been requested and is awaiting your decision."
	case appointment.TransitionConfirmed:
		return "The provider confirmed the appointment."
	case appointment.TransitionCancelled:
		return who + " cancelled the appointment."
	case appointment.TransitionRescheduleProposed:
		return who + " proposed a new time for the appointment."
	case appointment.TransitionRescheduleAccepted:
		return "The proposed new time was accepted."
	case appointment.TransitionRescheduleDeclined:
		return "The proposed new time was declined and the appointment is cancelled."
	case appointment.TransitionCompleted:
		return "The appointment was marked as completed."
	default:
		return "The appointment was updated."
	}
}

func titleFor(ev events.Event) string {
	switch ev.Kind {
	case appointment.TransitionCreated:
		return "New appointment request"
	case appointment.TransitionConfirmed:
		return "Appointment confirmed"
	case appointment.TransitionCancelled:
		return "Appointment cancelled"
	case appointment.TransitionRescheduleProposed:
		return "New time proposed"
	case appointment.TransitionRescheduleAccepted:
		return "New time accepted"
	case appointment.TransitionRescheduleDeclined:
		return "Proposed time declined"
	case appointment.TransitionCompleted:
		return "Appointment completed"
	default:
		return "Appointment update"
	}
}
