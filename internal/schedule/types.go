package schedule

import (
	"fmt"
	"time"
)

// DefaultGranularity is the slot length used for providers that have
// not configured their own.
const DefaultGranularity = 30 * time.Minute

// TimeOfDay is a wall-clock time within a day, minute resolution.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "15:04" formatted strings.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("parse time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// TimeOfDayFromMinutes converts minutes-since-midnight to a TimeOfDay.
func TimeOfDayFromMinutes(m int) TimeOfDay {
	return TimeOfDay{Hour: m / 60, Minute: m % 60}
}

func (t TimeOfDay) Minutes() int { return t.Hour*60 + t.Minute }

func (t TimeOfDay) Before(u TimeOfDay) bool { return t.Minutes() < u.Minutes() }

func (t TimeOfDay) Add(d time.Duration) TimeOfDay {
	return TimeOfDayFromMinutes(t.Minutes() + int(d.Minutes()))
}

func (t TimeOfDay) String() string { return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute) }

// Date is a civil calendar date with no timezone attached. Weekday
// resolution must happen on the calendar date itself; converting the
// date through a UTC instant first shifts it across midnight for some
// zones and yields an off-by-one weekday.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses "2006-01-02" formatted strings as a calendar date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// DateOf extracts the calendar date from t in t's own location.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Weekday returns the day of week of the calendar date.
func (d Date) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Weekday()
}

// At combines the date with a wall-clock time. The result carries the
// provider's local wall clock; all engine comparisons stay within this
// single frame so the location is fixed to UTC by convention.
func (d Date) At(t TimeOfDay) time.Time {
	return time.Date(d.Year, d.Month, d.Day, t.Hour, t.Minute, 0, 0, time.UTC)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// DayWindow is one weekday's configured availability.
type DayWindow struct {
	Enabled bool
	Open    TimeOfDay
	Close   TimeOfDay
}

// FlatSchedule is the legacy availability form: one open window shared
// by every enabled weekday. An empty Weekdays list means every day is
// open; that is a deliberate backward-compatibility policy, not an
// accident.
type FlatSchedule struct {
	Open     TimeOfDay
	Close    TimeOfDay
	Weekdays []time.Weekday
}

// WeeklySchedule is a provider's availability in either representation.
// When Days is non-empty it wins; Flat is only consulted as a fallback.
type WeeklySchedule struct {
	Days map[time.Weekday]DayWindow
	Flat *FlatSchedule
}

// Validate checks the invariant that every enabled window opens before
// it closes.
func (s WeeklySchedule) Validate() error {
	for wd, w := range s.Days {
		if w.Enabled && !w.Open.Before(w.Close) {
			return fmt.Errorf("weekday %s: open %s must be before close %s", wd, w.Open, w.Close)
		}
	}
	if s.Flat != nil && !s.Flat.Open.Before(s.Flat.Close) {
		return fmt.Errorf("flat schedule: open %s must be before close %s", s.Flat.Open, s.Flat.Close)
	}
	return nil
}

// OpenWindow is one resolved day's bookable range.
type OpenWindow struct {
	Open  TimeOfDay
	Close TimeOfDay
}

// Interval is a half-open [Start, End) occupied range within a single
// day, used as the conflict-set element.
type Interval struct {
	Start TimeOfDay
	End   TimeOfDay
}

// Overlaps reports whether two half-open intervals intersect.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// Slot is an ephemeral candidate booking interval. Slots are produced
// fresh for every query and never cached; booking state can change
// between requests.
type Slot struct {
	Date  Date
	Start TimeOfDay
	End   TimeOfDay
	Free  bool
}
