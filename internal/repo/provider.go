package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salusapp/salus_backend/internal/schedule"
)

// Provider is the scheduling-relevant projection of a provider. The
// rest of the provider profile lives outside this service.
type Provider struct {
	ID                 uuid.UUID
	DisplayName        string
	Phone              string
	Email              string
	GranularityMinutes int
	Schedule           schedule.WeeklySchedule
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Granularity returns the provider's slot granularity as a duration,
// falling back to the engine default when unset.
func (p *Provider) Granularity() time.Duration {
	if p.GranularityMinutes <= 0 {
		return schedule.DefaultGranularity
	}
	return time.Duration(p.GranularityMinutes) * time.Minute
}

type ProviderStore struct {
	pool *pgxpool.Pool
}

func NewProviderStore(pool *pgxpool.Pool) *ProviderStore {
	return &ProviderStore{pool: pool}
}

func (s *ProviderStore) Create(ctx context.Context, p *Provider) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO providers (id, display_name, phone, email, granularity_minutes)
		VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.DisplayName, nullableText(p.Phone), nullableText(p.Email), p.GranularityMinutes)
	if err != nil {
		return fmt.Errorf("insert provider: %w", err)
	}
	return nil
}

// Get loads a provider together with its weekly schedule.
func (s *ProviderStore) Get(ctx context.Context, id uuid.UUID) (*Provider, error) {
	var (
		p            Provider
		phone        *string
		email        *string
		flatOpen     *int
		flatClose    *int
		flatWeekdays []int16
	)
	err := s.pool.QueryRow(ctx, `
		SELECT id, display_name, phone, email, granularity_minutes,
		       flat_open_minutes, flat_close_minutes, flat_weekdays,
		       created_at, updated_at
		FROM providers WHERE id = $1`, id).
		Scan(&p.ID, &p.DisplayName, &phone, &email, &p.GranularityMinutes,
			&flatOpen, &flatClose, &flatWeekdays,
			&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select provider: %w", err)
	}
	if phone != nil {
		p.Phone = *phone
	}
	if email != nil {
		p.Email = *email
	}
	if flatOpen != nil && flatClose != nil {
		flat := &schedule.FlatSchedule{
			Open:  schedule.TimeOfDayFromMinutes(*flatOpen),
			Close: schedule.TimeOfDayFromMinutes(*flatClose),
		}
		for _, wd := range flatWeekdays {
			flat.Weekdays = append(flat.Weekdays, time.Weekday(wd))
		}
		p.Schedule.Flat = flat
	}

	rows, err := s.pool.Query(ctx, `
		SELECT weekday, enabled, open_minutes, close_minutes
		FROM provider_schedule_days WHERE provider_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("select schedule days: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			wd          int16
			enabled     bool
			open, close int
		)
		if err := rows.Scan(&wd, &enabled, &open, &close); err != nil {
			return nil, fmt.Errorf("scan schedule day: %w", err)
		}
		if p.Schedule.Days == nil {
			p.Schedule.Days = make(map[time.Weekday]schedule.DayWindow)
		}
		p.Schedule.Days[time.Weekday(wd)] = schedule.DayWindow{
			Enabled: enabled,
			Open:    schedule.TimeOfDayFromMinutes(open),
			Close:   schedule.TimeOfDayFromMinutes(close),
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedule days: %w", err)
	}
	return &p, nil
}

// UpsertScheduleDay writes one weekday window of the per-weekday form.
func (s *ProviderStore) UpsertScheduleDay(ctx context.Context, providerID uuid.UUID, weekday time.Weekday, w schedule.DayWindow) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO provider_schedule_days (provider_id, weekday, enabled, open_minutes, close_minutes)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (provider_id, weekday) DO UPDATE
		SET enabled = EXCLUDED.enabled,
		    open_minutes = EXCLUDED.open_minutes,
		    close_minutes = EXCLUDED.close_minutes`,
		providerID, int16(weekday), w.Enabled, w.Open.Minutes(), w.Close.Minutes())
	if err != nil {
		return fmt.Errorf("upsert schedule day: %w", err)
	}
	return nil
}

func (s *ProviderStore) DeleteScheduleDay(ctx context.Context, providerID uuid.UUID, weekday time.Weekday) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM provider_schedule_days
		WHERE provider_id = $1 AND weekday = $2`, providerID, int16(weekday))
	if err != nil {
		return fmt.Errorf("delete schedule day: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ProviderStore) SetGranularity(ctx context.Context, providerID uuid.UUID, minutes int) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE providers SET granularity_minutes = $2, updated_at = now()
		WHERE id = $1`, providerID, minutes)
	if err != nil {
		return fmt.Errorf("update granularity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
