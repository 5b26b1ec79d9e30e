package schedule

import "time"

// GenerateSlots walks the open window in granularity steps and emits
// one slot per step that still fits before close. Each slot is marked
// free unless its half-open interval overlaps an entry in conflicts.
//
// Output is ascending by start time and fully determined by the
// inputs, so an unchanged re-query yields identical slots.
func GenerateSlots(date Date, window OpenWindow, granularity time.Duration, conflicts []Interval) []Slot {
	if granularity <= 0 {
		granularity = DefaultGranularity
	}

	var slots []Slot
	for start := window.Open; !window.Close.Before(start.Add(granularity)); start = start.Add(granularity) {
		end := start.Add(granularity)
		slots = append(slots, Slot{
			Date:  date,
			Start: start,
			End:   end,
			Free:  !overlapsAny(Interval{Start: start, End: end}, conflicts),
		})
	}
	return slots
}

// SlotsForDay resolves the date's open window and generates its slots
// in one step. A closed day yields no slots.
func SlotsForDay(s WeeklySchedule, date Date, granularity time.Duration, conflicts []Interval) []Slot {
	window, open := ResolveOpenWindow(s, date)
	if !open {
		return nil
	}
	return GenerateSlots(date, window, granularity, conflicts)
}

func overlapsAny(iv Interval, conflicts []Interval) bool {
	for _, c := range conflicts {
		if iv.Overlaps(c) {
			return true
		}
	}
	return false
}
