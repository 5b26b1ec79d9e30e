package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/salusapp/salus_backend/internal/repo"
	"github.com/salusapp/salus_backend/internal/schedule"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type RegisterRequest struct {
	DisplayName        string
	Phone              string
	Email              string
	GranularityMinutes int
}

type SetDayWindowRequest struct {
	Weekday time.Weekday
	Enabled bool
	Open    string // "HH:MM"
	Close   string // "HH:MM"
}

// ---------------------------------------------------------------------------
// Store
// ---------------------------------------------------------------------------

type Store interface {
	Create(ctx context.Context, p *repo.Provider) error
	Get(ctx context.Context, id uuid.UUID) (*repo.Provider, error)
	UpsertScheduleDay(ctx context.Context, providerID uuid.UUID, weekday time.Weekday, w schedule.DayWindow) error
	DeleteScheduleDay(ctx context.Context, providerID uuid.UUID, weekday time.Weekday) error
	SetGranularity(ctx context.Context, providerID uuid.UUID, minutes int) error
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*repo.Provider, error)
	Get(ctx context.Context, providerID uuid.UUID) (*repo.Provider, error)

	// Weekly schedule management
	SetDayWindow(ctx context.Context, providerID uuid.UUID, req SetDayWindowRequest) (*repo.Provider, error)
	ClearDayWindow(ctx context.Context, providerID uuid.UUID, weekday time.Weekday) (*repo.Provider, error)
	SetGranularity(ctx context.Context, providerID uuid.UUID, minutes int) (*repo.Provider, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type providerService struct {
	store Store
}

func New(store Store) Service {
	return &providerService{store: store}
}

func (s *providerService) Register(ctx context.Context, req RegisterRequest) (*repo.Provider, error) {
	gran := req.GranularityMinutes
	if gran <= 0 {
		gran = int(schedule.DefaultGranularity.Minutes())
	}

	p := &repo.Provider{
		ID:                 uuid.Must(uuid.NewV7()),
		DisplayName:        req.DisplayName,
		Phone:              req.Phone,
		Email:              req.Email,
		GranularityMinutes: gran,
	}
	if err := s.store.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("register provider: %w", err)
	}
	return p, nil
}

func (s *providerService) Get(ctx context.Context, providerID uuid.UUID) (*repo.Provider, error) {
	p, err := s.store.Get(ctx, providerID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get provider: %w", err)
	}
	return p, nil
}

func (s *providerService) SetDayWindow(ctx context.Context, providerID uuid.UUID, req SetDayWindowRequest) (*repo.Provider, error) {
	var open, close schedule.TimeOfDay
	if req.Enabled {
		var err error
		if open, err = schedule.ParseTimeOfDay(req.Open); err != nil {
			return nil, err
		}
		if close, err = schedule.ParseTimeOfDay(req.Close); err != nil {
			return nil, err
		}
		if !open.Before(close) {
			return nil, ErrInvalidWindow
		}
	}

	if _, err := s.Get(ctx, providerID); err != nil {
		return nil, err
	}

	w := schedule.DayWindow{Enabled: req.Enabled, Open: open, Close: close}
	if err := s.store.UpsertScheduleDay(ctx, providerID, req.Weekday, w); err != nil {
		return nil, fmt.Errorf("set day window: %w", err)
	}
	return s.Get(ctx, providerID)
}

func (s *providerService) ClearDayWindow(ctx context.Context, providerID uuid.UUID, weekday time.Weekday) (*repo.Provider, error) {
	if err := s.store.DeleteScheduleDay(ctx, providerID, weekday); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("clear day window: %w", err)
	}
	return s.Get(ctx, providerID)
}

func (s *providerService) SetGranularity(ctx context.Context, providerID uuid.UUID, minutes int) (*repo.Provider, error) {
	if minutes <= 0 || minutes > 24*60 {
		return nil, ErrInvalidGranularity
	}
	if err := s.store.SetGranularity(ctx, providerID, minutes); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("set granularity: %w", err)
	}
	return s.Get(ctx, providerID)
}
