package schedule

// ResolveOpenWindow determines whether the provider works the given
// date and, if so, which hours apply. It returns ok=false when the day
// is closed.
//
// Resolution order:
//  1. A per-weekday entry, when the per-weekday form is populated.
//     An explicitly disabled entry and a missing entry are both
//     closed; a day that was never configured is not bookable.
//  2. The legacy flat form: closed unless the weekday is listed, with
//     an empty list meaning open every day.
//  3. No schedule at all resolves to closed.
func ResolveOpenWindow(s WeeklySchedule, date Date) (OpenWindow, bool) {
	wd := date.Weekday()

	if len(s.Days) > 0 {
		w, configured := s.Days[wd]
		if !configured || !w.Enabled {
			return OpenWindow{}, false
		}
		return OpenWindow{Open: w.Open, Close: w.Close}, true
	}

	if s.Flat != nil {
		if len(s.Flat.Weekdays) == 0 {
			return OpenWindow{Open: s.Flat.Open, Close: s.Flat.Close}, true
		}
		for _, d := range s.Flat.Weekdays {
			if d == wd {
				return OpenWindow{Open: s.Flat.Open, Close: s.Flat.Close}, true
			}
		}
	}

	return OpenWindow{}, false
}
