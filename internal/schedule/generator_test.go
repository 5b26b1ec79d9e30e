package schedule

import (
	"reflect"
	"testing"
	"time"
)

func TestGenerateSlots_MorningWindow(t *testing.T) {
	// Monday 09:00-12:00 at 30m granularity with no bookings yields
	// six free slots 09:00..11:30.
	date := mustDate(t, "2026-08-31")
	slots := GenerateSlots(date, OpenWindow{Open: tod(9, 0), Close: tod(12, 0)}, 30*time.Minute, nil)

	if len(slots) != 6 {
		t.Fatalf("got %d slots, want 6", len(slots))
	}
	wantStarts := []TimeOfDay{tod(9, 0), tod(9, 30), tod(10, 0), tod(10, 30), tod(11, 0), tod(11, 30)}
	for i, s := range slots {
		if s.Start != wantStarts[i] {
			t.Errorf("slot %d start = %v, want %v", i, s.Start, wantStarts[i])
		}
		if s.End != wantStarts[i].Add(30*time.Minute) {
			t.Errorf("slot %d end = %v, want %v", i, s.End, wantStarts[i].Add(30*time.Minute))
		}
		if !s.Free {
			t.Errorf("slot %d expected free", i)
		}
		if s.Date != date {
			t.Errorf("slot %d date = %v, want %v", i, s.Date, date)
		}
	}
}

func TestGenerateSlots_ConflictMarksTaken(t *testing.T) {
	// Same window, one existing 10:00-10:30 booking: only that slot
	// flips to taken.
	date := mustDate(t, "2026-08-31")
	conflicts := []Interval{{Start: tod(10, 0), End: tod(10, 30)}}
	slots := GenerateSlots(date, OpenWindow{Open: tod(9, 0), Close: tod(12, 0)}, 30*time.Minute, conflicts)

	for _, s := range slots {
		wantFree := s.Start != tod(10, 0)
		if s.Free != wantFree {
			t.Errorf("slot %v free = %v, want %v", s.Start, s.Free, wantFree)
		}
	}
}

func TestGenerateSlots_PartialOverlapMarksTaken(t *testing.T) {
	// A 45-minute appointment straddling two slots takes both; the
	// overlap test is interval intersection, not start equality.
	date := mustDate(t, "2026-08-31")
	conflicts := []Interval{{Start: tod(9, 15), End: tod(10, 0)}}
	slots := GenerateSlots(date, OpenWindow{Open: tod(9, 0), Close: tod(11, 0)}, 30*time.Minute, conflicts)

	free := map[TimeOfDay]bool{}
	for _, s := range slots {
		free[s.Start] = s.Free
	}
	if free[tod(9, 0)] {
		t.Error("09:00 slot overlaps 09:15-10:00, expected taken")
	}
	if free[tod(9, 30)] {
		t.Error("09:30 slot overlaps 09:15-10:00, expected taken")
	}
	if !free[tod(10, 0)] {
		t.Error("10:00 slot touches conflict end only, expected free")
	}
	if !free[tod(10, 30)] {
		t.Error("10:30 slot expected free")
	}
}

func TestGenerateSlots_LastSlotMustFit(t *testing.T) {
	// 09:00-10:15 at 30m: the 10:00 step would end 10:30, past close.
	slots := GenerateSlots(mustDate(t, "2026-08-31"), OpenWindow{Open: tod(9, 0), Close: tod(10, 15)}, 30*time.Minute, nil)
	if len(slots) != 2 {
		t.Fatalf("got %d slots, want 2", len(slots))
	}
	if last := slots[len(slots)-1]; last.Start != tod(9, 30) {
		t.Errorf("last slot start = %v, want 09:30", last.Start)
	}
}

func TestGenerateSlots_StrictlyIncreasing(t *testing.T) {
	slots := GenerateSlots(mustDate(t, "2026-08-31"), OpenWindow{Open: tod(8, 0), Close: tod(18, 0)}, 20*time.Minute, nil)
	for i := 1; i < len(slots); i++ {
		if !slots[i-1].Start.Before(slots[i].Start) {
			t.Fatalf("slots not strictly increasing at %d: %v then %v", i, slots[i-1].Start, slots[i].Start)
		}
		if slots[i].Start.Before(slots[i-1].End) {
			t.Fatalf("slots overlap at %d: %v-%v then %v", i, slots[i-1].Start, slots[i-1].End, slots[i].Start)
		}
	}
}

func TestGenerateSlots_Deterministic(t *testing.T) {
	date := mustDate(t, "2026-08-31")
	window := OpenWindow{Open: tod(9, 0), Close: tod(13, 0)}
	conflicts := []Interval{{Start: tod(11, 0), End: tod(11, 30)}}

	a := GenerateSlots(date, window, 30*time.Minute, conflicts)
	b := GenerateSlots(date, window, 30*time.Minute, conflicts)
	if !reflect.DeepEqual(a, b) {
		t.Error("identical inputs produced different slot sequences")
	}
}

func TestSlotsForDay_ClosedDayIsEmpty(t *testing.T) {
	s := WeeklySchedule{Days: map[time.Weekday]DayWindow{
		time.Monday: {Enabled: true, Open: tod(9, 0), Close: tod(12, 0)},
	}}
	// Sunday: unconfigured, closed.
	if slots := SlotsForDay(s, mustDate(t, "2026-08-30"), 30*time.Minute, nil); len(slots) != 0 {
		t.Errorf("closed day produced %d slots, want 0", len(slots))
	}
}

func TestGenerateSlots_ZeroGranularityUsesDefault(t *testing.T) {
	slots := GenerateSlots(mustDate(t, "2026-08-31"), OpenWindow{Open: tod(9, 0), Close: tod(10, 0)}, 0, nil)
	if len(slots) != 2 {
		t.Errorf("got %d slots, want 2 at default 30m granularity", len(slots))
	}
}

func TestIntervalOverlaps(t *testing.T) {
	base := Interval{Start: tod(10, 0), End: tod(10, 30)}
	cases := []struct {
		name  string
		other Interval
		want  bool
	}{
		{"identical", Interval{tod(10, 0), tod(10, 30)}, true},
		{"contained", Interval{tod(10, 10), tod(10, 20)}, true},
		{"straddles start", Interval{tod(9, 45), tod(10, 15)}, true},
		{"straddles end", Interval{tod(10, 15), tod(10, 45)}, true},
		{"touching before", Interval{tod(9, 30), tod(10, 0)}, false},
		{"touching after", Interval{tod(10, 30), tod(11, 0)}, false},
		{"disjoint", Interval{tod(12, 0), tod(12, 30)}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := base.Overlaps(tc.other); got != tc.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v", base, tc.other, got, tc.want)
			}
			if got := tc.other.Overlaps(base); got != tc.want {
				t.Errorf("Overlaps is not symmetric for %v", tc.other)
			}
		})
	}
}
