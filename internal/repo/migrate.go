package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is applied by `salus system migrate`. Statements are
// idempotent so re-running the command is safe.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS providers (
		id                  uuid PRIMARY KEY,
		display_name        text NOT NULL,
		phone               text,
		email               text,
		granularity_minutes integer NOT NULL DEFAULT 30,
		flat_open_minutes   integer,
		flat_close_minutes  integer,
		flat_weekdays       smallint[],
		created_at          timestamptz NOT NULL DEFAULT now(),
		updated_at          timestamptz NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS provider_schedule_days (
		provider_id   uuid NOT NULL REFERENCES providers(id) ON DELETE CASCADE,
		weekday       smallint NOT NULL CHECK (weekday BETWEEN 0 AND 6),
		enabled       boolean NOT NULL DEFAULT true,
		open_minutes  integer NOT NULL,
		close_minutes integer NOT NULL,
		PRIMARY KEY (provider_id, weekday)
	)`,

	// start_at/proposed_start are wall-clock instants on the
	// provider's local clock, stored without a zone on purpose.
	`CREATE TABLE IF NOT EXISTS appointments (
		id               uuid PRIMARY KEY,
		provider_id      uuid NOT NULL,
		subject_id       uuid NOT NULL,
		start_at         timestamp NOT NULL,
		duration_minutes integer NOT NULL,
		purpose          text NOT NULL DEFAULT '',
		share_records    boolean NOT NULL DEFAULT false,
		remote           boolean NOT NULL DEFAULT false,
		status           text NOT NULL DEFAULT 'pending',
		provider_note    text,
		visit_notes      text,
		proposed_start   timestamp,
		proposal_note    text,
		proposed_at      timestamp,
		created_at       timestamptz NOT NULL DEFAULT now(),
		updated_at       timestamptz NOT NULL DEFAULT now()
	)`,

	`CREATE INDEX IF NOT EXISTS appointments_provider_day_idx
		ON appointments (provider_id, start_at)
		WHERE status <> 'cancelled'`,

	`CREATE INDEX IF NOT EXISTS appointments_subject_idx
		ON appointments (subject_id, status)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id         uuid PRIMARY KEY,
		user_id    uuid NOT NULL,
		type       text NOT NULL,
		title      text NOT NULL,
		body       text,
		data       jsonb,
		is_read    boolean NOT NULL DEFAULT false,
		created_at timestamptz NOT NULL DEFAULT now()
	)`,

	`CREATE INDEX IF NOT EXISTS notifications_user_idx
		ON notifications (user_id, is_read, created_at DESC)`,
}

// Migrate applies the schema to the connected database.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}
	return nil
}
