package appointment

import (
	"time"

	"github.com/salusapp/salus_backend/internal/schedule"
)

// Candidate is a booking attempt to validate: a start instant on the
// provider's clock plus the slot granularity that applies.
type Candidate struct {
	Start       time.Time
	Granularity time.Duration
}

// ValidateBooking enforces the booking invariants in order, first
// failure wins:
//
//  1. the start is strictly in the future against now — the server's
//     clock, never a client-supplied value (ErrPastDateTime);
//  2. the provider is open that day and the slot fits inside the open
//     window (ErrProviderClosed);
//  3. the slot's half-open interval overlaps nothing in the conflict
//     set (ErrSlotTaken).
//
// Callers must re-run this at commit time with a fresh conflict set:
// slot listings are advisory and time passes between query and commit.
func ValidateBooking(now time.Time, sched schedule.WeeklySchedule, conflicts []schedule.Interval, c Candidate) error {
	gran := c.Granularity
	if gran <= 0 {
		gran = schedule.DefaultGranularity
	}

	if !c.Start.After(now) {
		return ErrPastDateTime
	}

	date := schedule.DateOf(c.Start)
	window, open := schedule.ResolveOpenWindow(sched, date)
	if !open {
		return ErrProviderClosed
	}

	start := schedule.TimeOfDay{Hour: c.Start.Hour(), Minute: c.Start.Minute()}
	if start.Before(window.Open) || window.Close.Before(start.Add(gran)) {
		return ErrProviderClosed
	}

	iv := schedule.Interval{Start: start, End: start.Add(gran)}
	for _, conflict := range conflicts {
		if iv.Overlaps(conflict) {
			return ErrSlotTaken
		}
	}

	return nil
}
