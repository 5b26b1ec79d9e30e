package appointment

import (
	"errors"
	"testing"
	"time"

	"github.com/salusapp/salus_backend/internal/schedule"
)

func weekdaySchedule() schedule.WeeklySchedule {
	open := schedule.TimeOfDay{Hour: 9}
	close := schedule.TimeOfDay{Hour: 17}
	days := map[time.Weekday]schedule.DayWindow{}
	for _, wd := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday} {
		days[wd] = schedule.DayWindow{Enabled: true, Open: open, Close: close}
	}
	return schedule.WeeklySchedule{Days: days}
}

func TestValidateBooking(t *testing.T) {
	now := time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC) // Friday noon
	sched := weekdaySchedule()
	gran := 30 * time.Minute

	t.Run("valid future weekday slot passes", func(t *testing.T) {
		c := Candidate{Start: time.Date(2026, time.August, 31, 10, 0, 0, 0, time.UTC), Granularity: gran}
		if err := ValidateBooking(now, sched, nil, c); err != nil {
			t.Errorf("unexpected rejection: %v", err)
		}
	})

	t.Run("past time rejected regardless of day openness", func(t *testing.T) {
		c := Candidate{Start: time.Date(2026, time.August, 28, 10, 0, 0, 0, time.UTC), Granularity: gran}
		if err := ValidateBooking(now, sched, nil, c); !errors.Is(err, ErrPastDateTime) {
			t.Errorf("err = %v, want ErrPastDateTime", err)
		}
	})

	t.Run("exactly now rejected", func(t *testing.T) {
		c := Candidate{Start: now, Granularity: gran}
		if err := ValidateBooking(now, sched, nil, c); !errors.Is(err, ErrPastDateTime) {
			t.Errorf("err = %v, want ErrPastDateTime", err)
		}
	})

	t.Run("sunday rejected when only weekdays enabled", func(t *testing.T) {
		c := Candidate{Start: time.Date(2026, time.August, 30, 10, 0, 0, 0, time.UTC), Granularity: gran}
		if err := ValidateBooking(now, sched, nil, c); !errors.Is(err, ErrProviderClosed) {
			t.Errorf("err = %v, want ErrProviderClosed", err)
		}
	})

	t.Run("before opening rejected", func(t *testing.T) {
		c := Candidate{Start: time.Date(2026, time.August, 31, 8, 30, 0, 0, time.UTC), Granularity: gran}
		if err := ValidateBooking(now, sched, nil, c); !errors.Is(err, ErrProviderClosed) {
			t.Errorf("err = %v, want ErrProviderClosed", err)
		}
	})

	t.Run("slot running past close rejected", func(t *testing.T) {
		c := Candidate{Start: time.Date(2026, time.August, 31, 16, 45, 0, 0, time.UTC), Granularity: gran}
		if err := ValidateBooking(now, sched, nil, c); !errors.Is(err, ErrProviderClosed) {
			t.Errorf("err = %v, want ErrProviderClosed", err)
		}
	})

	t.Run("last slot of the day passes", func(t *testing.T) {
		c := Candidate{Start: time.Date(2026, time.August, 31, 16, 30, 0, 0, time.UTC), Granularity: gran}
		if err := ValidateBooking(now, sched, nil, c); err != nil {
			t.Errorf("unexpected rejection: %v", err)
		}
	})

	t.Run("overlapping conflict rejected", func(t *testing.T) {
		conflicts := []schedule.Interval{{
			Start: schedule.TimeOfDay{Hour: 10},
			End:   schedule.TimeOfDay{Hour: 10, Minute: 30},
		}}
		c := Candidate{Start: time.Date(2026, time.August, 31, 10, 0, 0, 0, time.UTC), Granularity: gran}
		if err := ValidateBooking(now, sched, conflicts, c); !errors.Is(err, ErrSlotTaken) {
			t.Errorf("err = %v, want ErrSlotTaken", err)
		}
	})

	t.Run("partially overlapping conflict rejected", func(t *testing.T) {
		conflicts := []schedule.Interval{{
			Start: schedule.TimeOfDay{Hour: 10, Minute: 15},
			End:   schedule.TimeOfDay{Hour: 10, Minute: 45},
		}}
		c := Candidate{Start: time.Date(2026, time.August, 31, 10, 0, 0, 0, time.UTC), Granularity: gran}
		if err := ValidateBooking(now, sched, conflicts, c); !errors.Is(err, ErrSlotTaken) {
			t.Errorf("err = %v, want ErrSlotTaken", err)
		}
	})

	t.Run("adjacent conflict passes", func(t *testing.T) {
		conflicts := []schedule.Interval{{
			Start: schedule.TimeOfDay{Hour: 10, Minute: 30},
			End:   schedule.TimeOfDay{Hour: 11},
		}}
		c := Candidate{Start: time.Date(2026, time.August, 31, 10, 0, 0, 0, time.UTC), Granularity: gran}
		if err := ValidateBooking(now, sched, conflicts, c); err != nil {
			t.Errorf("unexpected rejection: %v", err)
		}
	})

	t.Run("check order puts past before closed", func(t *testing.T) {
		// Past time on a closed Sunday must report PastDateTime first.
		c := Candidate{Start: time.Date(2026, time.August, 23, 10, 0, 0, 0, time.UTC), Granularity: gran}
		if err := ValidateBooking(now, sched, nil, c); !errors.Is(err, ErrPastDateTime) {
			t.Errorf("err = %v, want ErrPastDateTime", err)
		}
	})
}
