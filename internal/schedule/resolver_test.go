package schedule

import (
	"testing"
	"time"
)

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q) failed: %v", s, err)
	}
	return d
}

func tod(h, m int) TimeOfDay { return TimeOfDay{Hour: h, Minute: m} }

func TestDateWeekday(t *testing.T) {
	// 2026-08-31 is a Monday regardless of the host timezone; the
	// weekday must come from the calendar date, not a UTC instant.
	cases := map[string]time.Weekday{
		"2026-08-30": time.Sunday,
		"2026-08-31": time.Monday,
		"2026-09-04": time.Friday,
		"2026-09-05": time.Saturday,
	}
	for s, want := range cases {
		if got := mustDate(t, s).Weekday(); got != want {
			t.Errorf("Weekday(%s) = %s, want %s", s, got, want)
		}
	}
}

func TestResolveOpenWindow_PerWeekday(t *testing.T) {
	s := WeeklySchedule{
		Days: map[time.Weekday]DayWindow{
			time.Monday:  {Enabled: true, Open: tod(9, 0), Close: tod(12, 0)},
			time.Tuesday: {Enabled: false, Open: tod(9, 0), Close: tod(12, 0)},
		},
	}

	t.Run("enabled day returns its window", func(t *testing.T) {
		w, open := ResolveOpenWindow(s, mustDate(t, "2026-08-31")) // Monday
		if !open {
			t.Fatal("expected Monday to be open")
		}
		if w.Open != tod(9, 0) || w.Close != tod(12, 0) {
			t.Errorf("window = %v-%v, want 09:00-12:00", w.Open, w.Close)
		}
	})

	t.Run("explicitly disabled day is closed", func(t *testing.T) {
		if _, open := ResolveOpenWindow(s, mustDate(t, "2026-09-01")); open { // Tuesday
			t.Error("expected Tuesday to be closed")
		}
	})

	t.Run("unconfigured day in populated schedule is closed", func(t *testing.T) {
		if _, open := ResolveOpenWindow(s, mustDate(t, "2026-09-02")); open { // Wednesday
			t.Error("expected unconfigured Wednesday to be closed")
		}
	})
}

func TestResolveOpenWindow_Legacy(t *testing.T) {
	t.Run("listed weekday is open", func(t *testing.T) {
		s := WeeklySchedule{Flat: &FlatSchedule{
			Open:     tod(8, 0),
			Close:    tod(16, 0),
			Weekdays: []time.Weekday{time.Monday, time.Wednesday},
		}}
		w, open := ResolveOpenWindow(s, mustDate(t, "2026-09-02")) // Wednesday
		if !open {
			t.Fatal("expected Wednesday to be open")
		}
		if w.Open != tod(8, 0) || w.Close != tod(16, 0) {
			t.Errorf("window = %v-%v, want 08:00-16:00", w.Open, w.Close)
		}
	})

	t.Run("unlisted weekday is closed", func(t *testing.T) {
		s := WeeklySchedule{Flat: &FlatSchedule{
			Open:     tod(8, 0),
			Close:    tod(16, 0),
			Weekdays: []time.Weekday{time.Monday},
		}}
		if _, open := ResolveOpenWindow(s, mustDate(t, "2026-09-03")); open { // Thursday
			t.Error("expected Thursday to be closed")
		}
	})

	t.Run("empty weekday list opens every day", func(t *testing.T) {
		s := WeeklySchedule{Flat: &FlatSchedule{Open: tod(10, 0), Close: tod(14, 0)}}
		for day := 0; day < 7; day++ {
			d := Date{Year: 2026, Month: time.August, Day: 30 + day}
			if _, open := ResolveOpenWindow(s, d); !open {
				t.Errorf("expected %s (%s) to be open", d, d.Weekday())
			}
		}
	})

	t.Run("per-weekday form wins over legacy form", func(t *testing.T) {
		s := WeeklySchedule{
			Days: map[time.Weekday]DayWindow{
				time.Monday: {Enabled: true, Open: tod(9, 0), Close: tod(11, 0)},
			},
			Flat: &FlatSchedule{Open: tod(8, 0), Close: tod(20, 0)},
		}
		w, open := ResolveOpenWindow(s, mustDate(t, "2026-08-31"))
		if !open || w.Close != tod(11, 0) {
			t.Errorf("expected per-weekday window 09:00-11:00, got %v open=%v", w, open)
		}
		// Tuesday exists only in the legacy form, but the populated
		// per-weekday form is authoritative: closed.
		if _, open := ResolveOpenWindow(s, mustDate(t, "2026-09-01")); open {
			t.Error("expected Tuesday to be closed when per-weekday form is populated")
		}
	})
}

func TestResolveOpenWindow_NoSchedule(t *testing.T) {
	if _, open := ResolveOpenWindow(WeeklySchedule{}, mustDate(t, "2026-08-31")); open {
		t.Error("expected empty schedule to resolve closed")
	}
}

func TestWeeklyScheduleValidate(t *testing.T) {
	t.Run("enabled day with inverted window fails", func(t *testing.T) {
		s := WeeklySchedule{Days: map[time.Weekday]DayWindow{
			time.Monday: {Enabled: true, Open: tod(12, 0), Close: tod(9, 0)},
		}}
		if err := s.Validate(); err == nil {
			t.Error("expected validation error for open >= close")
		}
	})

	t.Run("disabled day with inverted window passes", func(t *testing.T) {
		s := WeeklySchedule{Days: map[time.Weekday]DayWindow{
			time.Monday: {Enabled: false, Open: tod(12, 0), Close: tod(9, 0)},
		}}
		if err := s.Validate(); err != nil {
			t.Errorf("unexpected validation error: %v", err)
		}
	})
}
