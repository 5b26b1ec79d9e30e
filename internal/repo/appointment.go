package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salusapp/salus_backend/internal/appointment"
	"github.com/salusapp/salus_backend/internal/schedule"
)

type AppointmentStore struct {
	pool *pgxpool.Pool
}

func NewAppointmentStore(pool *pgxpool.Pool) *AppointmentStore {
	return &AppointmentStore{pool: pool}
}

const appointmentColumns = `
	id, provider_id, subject_id, start_at, duration_minutes,
	purpose, share_records, remote, status,
	provider_note, visit_notes,
	proposed_start, proposal_note, proposed_at,
	created_at, updated_at`

func (s *AppointmentStore) Create(ctx context.Context, a *appointment.Appointment) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO appointments (
			id, provider_id, subject_id, start_at, duration_minutes,
			purpose, share_records, remote, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		a.ID, a.ProviderID, a.SubjectID, a.Start, int(a.Duration.Minutes()),
		a.Purpose, a.ShareRecords, a.Remote, a.Status, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

func (s *AppointmentStore) Get(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments WHERE id = $1`, id)
	a, err := scanAppointment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select appointment: %w", err)
	}
	return a, nil
}

// Update persists a fully mutated appointment, guarded by the status
// the caller read. Zero rows affected means another writer got there
// first and the caller must re-read.
func (s *AppointmentStore) Update(ctx context.Context, a *appointment.Appointment, expected appointment.Status) error {
	var (
		proposedStart *time.Time
		proposalNote  *string
		proposedAt    *time.Time
	)
	if a.Proposal != nil {
		proposedStart = &a.Proposal.Start
		proposalNote = a.Proposal.Note
		proposedAt = &a.Proposal.ProposedAt
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE appointments SET
			start_at = $3, status = $4,
			provider_note = $5, visit_notes = $6,
			proposed_start = $7, proposal_note = $8, proposed_at = $9,
			updated_at = $10
		WHERE id = $1 AND status = $2`,
		a.ID, expected, a.Start, a.Status,
		a.ProviderNote, a.VisitNotes,
		proposedStart, proposalNote, proposedAt,
		a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleUpdate
	}
	return nil
}

// ListFilter narrows List. Zero values are ignored.
type ListFilter struct {
	ProviderID uuid.UUID
	SubjectID  uuid.UUID
	Status     appointment.Status
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}

func (s *AppointmentStore) List(ctx context.Context, f ListFilter) ([]*appointment.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE 1=1`
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.ProviderID != uuid.Nil {
		query += ` AND provider_id = ` + arg(f.ProviderID)
	}
	if f.SubjectID != uuid.Nil {
		query += ` AND subject_id = ` + arg(f.SubjectID)
	}
	if f.Status != "" {
		query += ` AND status = ` + arg(f.Status)
	}
	if !f.From.IsZero() {
		query += ` AND start_at >= ` + arg(f.From)
	}
	if !f.To.IsZero() {
		query += ` AND start_at < ` + arg(f.To)
	}
	query += ` ORDER BY start_at ASC`
	if f.Limit > 0 {
		query += ` LIMIT ` + arg(f.Limit)
	}
	if f.Offset > 0 {
		query += ` OFFSET ` + arg(f.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select appointments: %w", err)
	}
	defer rows.Close()

	var out []*appointment.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate appointments: %w", err)
	}
	return out, nil
}

// ConflictIntervals returns the busy intervals of every non-cancelled
// appointment the provider has on the given day. Callers may exclude
// one appointment, used when re-validating a reschedule target.
func (s *AppointmentStore) ConflictIntervals(ctx context.Context, providerID uuid.UUID, day schedule.Date, exclude uuid.UUID) ([]schedule.Interval, error) {
	dayStart := day.At(schedule.TimeOfDay{})
	dayEnd := dayStart.Add(24 * time.Hour)
	rows, err := s.pool.Query(ctx, `
		SELECT start_at, duration_minutes
		FROM appointments
		WHERE provider_id = $1
		  AND start_at >= $2 AND start_at < $3
		  AND status <> $4
		  AND id <> $5
		ORDER BY start_at ASC`,
		providerID, dayStart, dayEnd, appointment.StatusCancelled, exclude)
	if err != nil {
		return nil, fmt.Errorf("select conflicts: %w", err)
	}
	defer rows.Close()

	var out []schedule.Interval
	for rows.Next() {
		var (
			start   time.Time
			minutes int
		)
		if err := rows.Scan(&start, &minutes); err != nil {
			return nil, fmt.Errorf("scan conflict: %w", err)
		}
		end := start.Add(time.Duration(minutes) * time.Minute)
		out = append(out, schedule.Interval{
			Start: schedule.TimeOfDay{Hour: start.Hour(), Minute: start.Minute()},
			End:   schedule.TimeOfDay{Hour: end.Hour(), Minute: end.Minute()},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conflicts: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row rowScanner) (*appointment.Appointment, error) {
	var (
		a             appointment.Appointment
		minutes       int
		providerNote  *string
		visitNotes    *string
		proposedStart *time.Time
		proposalNote  *string
		proposedAt    *time.Time
	)
	err := row.Scan(
		&a.ID, &a.ProviderID, &a.SubjectID, &a.Start, &minutes,
		&a.Purpose, &a.ShareRecords, &a.Remote, &a.Status,
		&providerNote, &visitNotes,
		&proposedStart, &proposalNote, &proposedAt,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Duration = time.Duration(minutes) * time.Minute
	a.ProviderNote = providerNote
	a.VisitNotes = visitNotes
	if proposedStart != nil {
		a.Proposal = &appointment.RescheduleProposal{
			Start: *proposedStart,
			Note:  proposalNote,
		}
		if proposedAt != nil {
			a.Proposal.ProposedAt = *proposedAt
		}
	}
	return &a, nil
}
