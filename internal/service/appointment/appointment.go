package appointment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/salusapp/salus_backend/config"
	domain "github.com/salusapp/salus_backend/internal/appointment"
	"github.com/salusapp/salus_backend/internal/events"
	"github.com/salusapp/salus_backend/internal/repo"
	"github.com/salusapp/salus_backend/internal/schedule"
	"github.com/salusapp/salus_backend/internal/service/scheduling"
	pkgredis "github.com/salusapp/salus_backend/pkg/redis"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreateRequest struct {
	ProviderID   uuid.UUID
	SubjectID    uuid.UUID
	Start        time.Time
	Purpose      string
	ShareRecords bool
	Remote       bool
}

type DecideRequest struct {
	Decision domain.Decision
	Note     *string
}

type ProposeRequest struct {
	NewStart time.Time
	Note     *string
}

type CompleteRequest struct {
	VisitNotes *string
}

type FollowUpRequest struct {
	OriginalID   uuid.UUID
	Start        time.Time
	Purpose      string
	ShareRecords bool
	Remote       bool
}

type ListRequest struct {
	ProviderID *uuid.UUID
	SubjectID  *uuid.UUID
	Status     *domain.Status
	From       *time.Time
	To         *time.Time
	Page       int
	PerPage    int
}

// ---------------------------------------------------------------------------
// Stores
// ---------------------------------------------------------------------------

type Store interface {
	Create(ctx context.Context, a *domain.Appointment) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	Update(ctx context.Context, a *domain.Appointment, expected domain.Status) error
	List(ctx context.Context, f repo.ListFilter) ([]*domain.Appointment, error)
	ConflictIntervals(ctx context.Context, providerID uuid.UUID, day schedule.Date, exclude uuid.UUID) ([]schedule.Interval, error)
}

type ProviderStore interface {
	Get(ctx context.Context, id uuid.UUID) (*repo.Provider, error)
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	List(ctx context.Context, req ListRequest) ([]*domain.Appointment, error)
	Get(ctx context.Context, actorID uuid.UUID, apptID uuid.UUID) (*domain.Appointment, error)

	Create(ctx context.Context, req CreateRequest) (*domain.Appointment, error)
	Decide(ctx context.Context, actorID, apptID uuid.UUID, req DecideRequest) (*domain.Appointment, error)
	ProposeReschedule(ctx context.Context, actorID, apptID uuid.UUID, req ProposeRequest) (*domain.Appointment, error)
	RespondToReschedule(ctx context.Context, actorID, apptID uuid.UUID, accept bool) (*domain.Appointment, error)
	Complete(ctx context.Context, actorID, apptID uuid.UUID, req CompleteRequest) (*domain.Appointment, error)
	CreateFollowUp(ctx context.Context, actorID uuid.UUID, req FollowUpRequest) (*domain.Appointment, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type appointmentService struct {
	store     Store
	providers ProviderStore
	rdb       *goredis.Client
	emitter   events.Emitter
	schedCfg  config.SchedulingConfig
	logger    *slog.Logger
	now       func() time.Time
}

func New(store Store, providers ProviderStore, rdb *goredis.Client, emitter events.Emitter, schedCfg config.SchedulingConfig, logger *slog.Logger) Service {
	if emitter == nil {
		emitter = events.NopEmitter{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &appointmentService{
		store:     store,
		providers: providers,
		rdb:       rdb,
		emitter:   emitter,
		schedCfg:  schedCfg,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *appointmentService) List(ctx context.Context, req ListRequest) ([]*domain.Appointment, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PerPage < 1 || req.PerPage > 100 {
		req.PerPage = 20
	}

	f := repo.ListFilter{
		Limit:  req.PerPage,
		Offset: (req.Page - 1) * req.PerPage,
	}
	if req.ProviderID != nil {
		f.ProviderID = *req.ProviderID
	}
	if req.SubjectID != nil {
		f.SubjectID = *req.SubjectID
	}
	if req.Status != nil {
		f.Status = *req.Status
	}
	if req.From != nil {
		f.From = *req.From
	}
	if req.To != nil {
		f.To = *req.To
	}

	appts, err := s.store.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appts, nil
}

func (s *appointmentService) Get(ctx context.Context, actorID, apptID uuid.UUID) (*domain.Appointment, error) {
	a, err := s.load(ctx, apptID)
	if err != nil {
		return nil, err
	}
	if a.ProviderID != actorID && a.SubjectID != actorID {
		return nil, ErrNotParticipant
	}
	return a, nil
}

func (s *appointmentService) Create(ctx context.Context, req CreateRequest) (*domain.Appointment, error) {
	p, err := s.providers.Get(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, fmt.Errorf("get provider: %w", err)
	}

	now := s.now()
	a := domain.New(
		uuid.Must(uuid.NewV7()),
		req.ProviderID, req.SubjectID,
		req.Start, p.Granularity(),
		req.Purpose, req.ShareRecords, req.Remote,
		now,
	)

	day := schedule.DateOf(req.Start)
	err = s.withDayLock(ctx, req.ProviderID, day, func() error {
		conflicts, err := s.store.ConflictIntervals(ctx, req.ProviderID, day, uuid.Nil)
		if err != nil {
			return fmt.Errorf("load conflicts: %w", err)
		}
		cand := domain.Candidate{Start: req.Start, Granularity: p.Granularity()}
		if err := domain.ValidateBooking(now, p.Schedule, conflicts, cand); err != nil {
			return err
		}
		if err := s.store.Create(ctx, a); err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, a, domain.TransitionCreated, domain.ActorSubject)
	return a, nil
}

func (s *appointmentService) Decide(ctx context.Context, actorID, apptID uuid.UUID, req DecideRequest) (*domain.Appointment, error) {
	a, err := s.load(ctx, apptID)
	if err != nil {
		return nil, err
	}
	if a.ProviderID != actorID {
		return nil, ErrNotParticipant
	}

	expected := a.Status
	kind, err := domain.Decide(a, req.Decision, req.Note, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, a, expected, "decision"); err != nil {
		return nil, err
	}

	s.emit(ctx, a, kind, domain.ActorProvider)
	return a, nil
}

func (s *appointmentService) ProposeReschedule(ctx context.Context, actorID, apptID uuid.UUID, req ProposeRequest) (*domain.Appointment, error) {
	a, err := s.load(ctx, apptID)
	if err != nil {
		return nil, err
	}
	if a.ProviderID != actorID {
		return nil, ErrNotParticipant
	}
	if err := domain.Check(a, domain.TransitionRescheduleProposed, domain.ActorProvider); err != nil {
		return nil, err
	}

	p, err := s.providers.Get(ctx, a.ProviderID)
	if err != nil {
		return nil, fmt.Errorf("get provider: %w", err)
	}

	// The proposed target must itself be a valid booking, ignoring the
	// appointment's own current interval.
	now := s.now()
	day := schedule.DateOf(req.NewStart)
	expected := a.Status
	err = s.withDayLock(ctx, a.ProviderID, day, func() error {
		conflicts, err := s.store.ConflictIntervals(ctx, a.ProviderID, day, a.ID)
		if err != nil {
			return fmt.Errorf("load conflicts: %w", err)
		}
		cand := domain.Candidate{Start: req.NewStart, Granularity: p.Granularity()}
		if err := domain.ValidateBooking(now, p.Schedule, conflicts, cand); err != nil {
			return err
		}
		if _, err := domain.ProposeReschedule(a, req.NewStart, req.Note, now); err != nil {
			return err
		}
		if err := s.persist(ctx, a, expected, "proposal"); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, a, domain.TransitionRescheduleProposed, domain.ActorProvider)
	return a, nil
}

func (s *appointmentService) RespondToReschedule(ctx context.Context, actorID, apptID uuid.UUID, accept bool) (*domain.Appointment, error) {
	a, err := s.load(ctx, apptID)
	if err != nil {
		return nil, err
	}
	if a.SubjectID != actorID {
		return nil, ErrNotParticipant
	}
	if err := domain.Check(a, domain.TransitionRescheduleAccepted, domain.ActorSubject); err != nil {
		return nil, err
	}

	now := s.now()
	expected := a.Status

	if !accept {
		kind, err := domain.RespondToReschedule(a, false, now)
		if err != nil {
			return nil, err
		}
		if err := s.persist(ctx, a, expected, "response"); err != nil {
			return nil, err
		}
		s.emit(ctx, a, kind, domain.ActorSubject)
		return a, nil
	}

	// Accepting moves the appointment, so the proposed slot has to be
	// re-validated against a fresh conflict set under the day lock.
	p, err := s.providers.Get(ctx, a.ProviderID)
	if err != nil {
		return nil, fmt.Errorf("get provider: %w", err)
	}
	day := schedule.DateOf(a.Proposal.Start)
	err = s.withDayLock(ctx, a.ProviderID, day, func() error {
		conflicts, err := s.store.ConflictIntervals(ctx, a.ProviderID, day, a.ID)
		if err != nil {
			return fmt.Errorf("load conflicts: %w", err)
		}
		cand := domain.Candidate{Start: a.Proposal.Start, Granularity: p.Granularity()}
		if err := domain.ValidateBooking(now, p.Schedule, conflicts, cand); err != nil {
			return err
		}
		if _, err := domain.RespondToReschedule(a, true, now); err != nil {
			return err
		}
		if err := s.persist(ctx, a, expected, "response"); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, a, domain.TransitionRescheduleAccepted, domain.ActorSubject)
	return a, nil
}

func (s *appointmentService) Complete(ctx context.Context, actorID, apptID uuid.UUID, req CompleteRequest) (*domain.Appointment, error) {
	a, err := s.load(ctx, apptID)
	if err != nil {
		return nil, err
	}
	if a.ProviderID != actorID {
		return nil, ErrNotParticipant
	}

	expected := a.Status
	kind, err := domain.Complete(a, req.VisitNotes, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, a, expected, "completion"); err != nil {
		return nil, err
	}

	s.emit(ctx, a, kind, domain.ActorProvider)
	return a, nil
}

// CreateFollowUp books a fresh appointment for the same pair through
// the normal booking path. The original record is untouched.
func (s *appointmentService) CreateFollowUp(ctx context.Context, actorID uuid.UUID, req FollowUpRequest) (*domain.Appointment, error) {
	orig, err := s.load(ctx, req.OriginalID)
	if err != nil {
		return nil, err
	}
	if orig.ProviderID != actorID {
		return nil, ErrNotParticipant
	}
	if orig.Status != domain.StatusCompleted {
		return nil, ErrNotCompleted
	}

	return s.Create(ctx, CreateRequest{
		ProviderID:   orig.ProviderID,
		SubjectID:    orig.SubjectID,
		Start:        req.Start,
		Purpose:      req.Purpose,
		ShareRecords: req.ShareRecords,
		Remote:       req.Remote,
	})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (s *appointmentService) load(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	a, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return a, nil
}

// persist writes a transition guarded by the status observed at load
// time. Losing that compare-and-set to a concurrent transition is a
// caller-visible conflict, not a storage failure.
func (s *appointmentService) persist(ctx context.Context, a *domain.Appointment, expected domain.Status, op string) error {
	if err := s.store.Update(ctx, a, expected); err != nil {
		if errors.Is(err, repo.ErrStaleUpdate) {
			return ErrConcurrentUpdate
		}
		return fmt.Errorf("persist %s: %w", op, err)
	}
	return nil
}

// withDayLock serializes booking commits for one provider-day through
// Redis. Without the lock, two commits could each pass validation
// against the same conflict set and both land.
func (s *appointmentService) withDayLock(ctx context.Context, providerID uuid.UUID, day schedule.Date, fn func() error) error {
	if s.rdb == nil {
		return fn()
	}

	ttl := time.Duration(s.schedCfg.BookingLockTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	retry := time.Duration(s.schedCfg.BookingLockRetryMillis) * time.Millisecond
	if retry <= 0 {
		retry = 50 * time.Millisecond
	}
	maxWait := time.Duration(s.schedCfg.BookingLockMaxWaitMillis) * time.Millisecond
	if maxWait <= 0 {
		maxWait = 2 * time.Second
	}

	lock := pkgredis.NewLock(s.rdb, scheduling.BookingLockKey(providerID, day), ttl)
	if err := lock.Acquire(ctx, retry, maxWait); err != nil {
		if errors.Is(err, pkgredis.ErrLockBusy) {
			return ErrLockTimeout
		}
		return fmt.Errorf("acquire booking lock: %w", err)
	}
	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("booking lock release failed", "provider_id", providerID, "error", err)
		}
	}()

	return fn()
}

// emit publishes the lifecycle event after the write has landed.
// Delivery is at-least-once; a publish failure is logged, never
// surfaced to the caller.
func (s *appointmentService) emit(ctx context.Context, a *domain.Appointment, kind domain.TransitionKind, actor domain.Actor) {
	ev := events.FromTransition(a, kind, actor, s.now())
	if err := s.emitter.Emit(ctx, ev); err != nil {
		s.logger.Error("emit appointment event failed",
			"appointment_id", a.ID, "kind", string(kind), "error", err)
	}
}
