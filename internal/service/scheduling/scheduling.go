package scheduling

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/salusapp/salus_backend/internal/repo"
	"github.com/salusapp/salus_backend/internal/schedule"
)

// MaxRangeDays bounds calendar-range queries.
const MaxRangeDays = 62

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// DayAvailability is one day's resolved slot listing. Slots are
// advisory: they reflect the conflict set at query time and may be
// stale by the time a booking is attempted. Degraded is set when a
// booking commit may be in flight that this view does not reflect.
type DayAvailability struct {
	Date     schedule.Date
	Open     bool
	Window   schedule.OpenWindow
	Slots    []schedule.Slot
	Degraded bool
}

// ---------------------------------------------------------------------------
// Stores
// ---------------------------------------------------------------------------

type ProviderStore interface {
	Get(ctx context.Context, id uuid.UUID) (*repo.Provider, error)
}

type ConflictStore interface {
	ConflictIntervals(ctx context.Context, providerID uuid.UUID, day schedule.Date, exclude uuid.UUID) ([]schedule.Interval, error)
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	QueryDay(ctx context.Context, providerID uuid.UUID, date schedule.Date) (*DayAvailability, error)
	QueryRange(ctx context.Context, providerID uuid.UUID, from, to schedule.Date) ([]DayAvailability, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type schedulingService struct {
	providers ProviderStore
	conflicts ConflictStore
	rdb       *goredis.Client
	logger    *slog.Logger
}

func New(providers ProviderStore, conflicts ConflictStore, rdb *goredis.Client, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &schedulingService{
		providers: providers,
		conflicts: conflicts,
		rdb:       rdb,
		logger:    logger,
	}
}

// BookingLockKey is the Redis key serializing booking commits for one
// provider-day. Slot queries never take it; they only peek at it to
// flag degraded results.
func BookingLockKey(providerID uuid.UUID, date schedule.Date) string {
	return fmt.Sprintf("bookinglock:%s:%s", providerID, date)
}

func (s *schedulingService) QueryDay(ctx context.Context, providerID uuid.UUID, date schedule.Date) (*DayAvailability, error) {
	p, err := s.providers.Get(ctx, providerID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, fmt.Errorf("get provider: %w", err)
	}
	return s.dayFor(ctx, p, date)
}

func (s *schedulingService) QueryRange(ctx context.Context, providerID uuid.UUID, from, to schedule.Date) ([]DayAvailability, error) {
	start := from.At(schedule.TimeOfDay{})
	end := to.At(schedule.TimeOfDay{})
	if end.Before(start) {
		return nil, ErrInvalidRange
	}
	if end.Sub(start) > MaxRangeDays*24*time.Hour {
		return nil, ErrRangeTooWide
	}

	p, err := s.providers.Get(ctx, providerID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, fmt.Errorf("get provider: %w", err)
	}

	var out []DayAvailability
	for d := start; !d.After(end); d = d.Add(24 * time.Hour) {
		day, err := s.dayFor(ctx, p, schedule.DateOf(d))
		if err != nil {
			return nil, err
		}
		out = append(out, *day)
	}
	return out, nil
}

func (s *schedulingService) dayFor(ctx context.Context, p *repo.Provider, date schedule.Date) (*DayAvailability, error) {
	window, open := schedule.ResolveOpenWindow(p.Schedule, date)
	if !open {
		return &DayAvailability{Date: date, Open: false}, nil
	}

	conflicts, err := s.conflicts.ConflictIntervals(ctx, p.ID, date, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("load conflicts: %w", err)
	}

	slots := schedule.GenerateSlots(date, window, p.Granularity(), conflicts)

	return &DayAvailability{
		Date:     date,
		Open:     true,
		Window:   window,
		Slots:    slots,
		Degraded: s.commitInFlight(ctx, p.ID, date),
	}, nil
}

// commitInFlight reports whether a booking commit currently holds the
// provider-day lock, or whether we cannot tell because Redis is
// unreachable. Either way the listing may not reflect a write that is
// about to land.
func (s *schedulingService) commitInFlight(ctx context.Context, providerID uuid.UUID, date schedule.Date) bool {
	if s.rdb == nil {
		return false
	}
	n, err := s.rdb.Exists(ctx, BookingLockKey(providerID, date)).Result()
	if err != nil {
		s.logger.Warn("booking lock probe failed", "provider_id", providerID, "error", err)
		return true
	}
	return n > 0
}
