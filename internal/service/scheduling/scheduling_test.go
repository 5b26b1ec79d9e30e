package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/salusapp/salus_backend/internal/repo"
	"github.com/salusapp/salus_backend/internal/schedule"
)

type fakeProviders struct {
	providers map[uuid.UUID]*repo.Provider
}

func (f *fakeProviders) Get(_ context.Context, id uuid.UUID) (*repo.Provider, error) {
	p, ok := f.providers[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return p, nil
}

type fakeConflicts struct {
	byDate map[schedule.Date][]schedule.Interval
}

func (f *fakeConflicts) ConflictIntervals(_ context.Context, _ uuid.UUID, day schedule.Date, _ uuid.UUID) ([]schedule.Interval, error) {
	return f.byDate[day], nil
}

func date(y int, m time.Month, d int) schedule.Date {
	return schedule.DateOf(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// weekdaysOnly is open Monday through Friday, 09:00 to 12:00, 60
// minute slots.
func weekdaysOnly(id uuid.UUID) *repo.Provider {
	days := make(map[time.Weekday]schedule.DayWindow)
	for wd := time.Monday; wd <= time.Friday; wd++ {
		days[wd] = schedule.DayWindow{
			Enabled: true,
			Open:    schedule.TimeOfDay{Hour: 9},
			Close:   schedule.TimeOfDay{Hour: 12},
		}
	}
	return &repo.Provider{
		ID:                 id,
		DisplayName:        "Dr. Reed",
		GranularityMinutes: 60,
		Schedule:           schedule.WeeklySchedule{Days: days},
	}
}

func newTestService(conflicts *fakeConflicts) (Service, uuid.UUID) {
	id := uuid.Must(uuid.NewV7())
	providers := &fakeProviders{providers: map[uuid.UUID]*repo.Provider{id: weekdaysOnly(id)}}
	if conflicts == nil {
		conflicts = &fakeConflicts{}
	}
	return New(providers, conflicts, nil, nil), id
}

func TestQueryDayOpenDay(t *testing.T) {
	svc, id := newTestService(nil)

	// 2026-03-02 is a Monday.
	day, err := svc.QueryDay(context.Background(), id, date(2026, time.March, 2))
	if err != nil {
		t.Fatalf("QueryDay failed: %v", err)
	}
	if !day.Open {
		t.Fatal("Monday should be open")
	}
	if day.Degraded {
		t.Error("no Redis configured, result must not be degraded")
	}
	if len(day.Slots) != 3 {
		t.Fatalf("len(Slots) = %d, want 3", len(day.Slots))
	}
	for i, want := range []int{9, 10, 11} {
		if day.Slots[i].Start.Hour != want || !day.Slots[i].Free {
			t.Errorf("slot %d = %+v, want free start %02d:00", i, day.Slots[i], want)
		}
	}
}

func TestQueryDayClosedDay(t *testing.T) {
	svc, id := newTestService(nil)

	// 2026-03-01 is a Sunday.
	day, err := svc.QueryDay(context.Background(), id, date(2026, time.March, 1))
	if err != nil {
		t.Fatalf("QueryDay failed: %v", err)
	}
	if day.Open {
		t.Error("Sunday should be closed")
	}
	if len(day.Slots) != 0 {
		t.Errorf("closed day returned %d slots", len(day.Slots))
	}
}

func TestQueryDayMarksTakenSlots(t *testing.T) {
	monday := date(2026, time.March, 2)
	conflicts := &fakeConflicts{byDate: map[schedule.Date][]schedule.Interval{
		monday: {{Start: schedule.TimeOfDay{Hour: 10}, End: schedule.TimeOfDay{Hour: 11}}},
	}}
	svc, id := newTestService(conflicts)

	day, err := svc.QueryDay(context.Background(), id, monday)
	if err != nil {
		t.Fatalf("QueryDay failed: %v", err)
	}
	var free, taken int
	for _, s := range day.Slots {
		if s.Free {
			free++
		} else {
			taken++
		}
	}
	if free != 2 || taken != 1 {
		t.Errorf("free/taken = %d/%d, want 2/1", free, taken)
	}
}

func TestQueryDayUnknownProvider(t *testing.T) {
	svc, _ := newTestService(nil)
	_, err := svc.QueryDay(context.Background(), uuid.New(), date(2026, time.March, 2))
	if !errors.Is(err, ErrProviderNotFound) {
		t.Errorf("err = %v, want ErrProviderNotFound", err)
	}
}

func TestQueryRange(t *testing.T) {
	svc, id := newTestService(nil)

	// Sunday through Saturday.
	days, err := svc.QueryRange(context.Background(), id, date(2026, time.March, 1), date(2026, time.March, 7))
	if err != nil {
		t.Fatalf("QueryRange failed: %v", err)
	}
	if len(days) != 7 {
		t.Fatalf("len = %d, want 7", len(days))
	}
	openCount := 0
	for _, d := range days {
		if d.Open {
			openCount++
		}
	}
	if openCount != 5 {
		t.Errorf("open days = %d, want 5", openCount)
	}
	if days[0].Open || days[6].Open {
		t.Error("weekend days should be closed")
	}
}

func TestQueryRangeValidation(t *testing.T) {
	svc, id := newTestService(nil)

	_, err := svc.QueryRange(context.Background(), id, date(2026, time.March, 7), date(2026, time.March, 1))
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("reversed range = %v, want ErrInvalidRange", err)
	}

	_, err = svc.QueryRange(context.Background(), id, date(2026, time.January, 1), date(2026, time.June, 1))
	if !errors.Is(err, ErrRangeTooWide) {
		t.Errorf("wide range = %v, want ErrRangeTooWide", err)
	}
}

func TestBookingLockKey(t *testing.T) {
	id := uuid.MustParse("0191f1c0-0000-7000-8000-000000000001")
	got := BookingLockKey(id, date(2026, time.March, 2))
	want := "bookinglock:0191f1c0-0000-7000-8000-000000000001:2026-03-02"
	if got != want {
		t.Errorf("BookingLockKey = %q, want %q", got, want)
	}
}
