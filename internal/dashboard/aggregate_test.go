package dashboard

import (
	"testing"
	"time"

	"github.com/pfrederiksen/seattle-events/internal/event"
)

func onDay(t *testing.T, day string) *event.Record {
	t.Helper()
	return dated(t, "https://example.org/"+day, day)
}

func TestCategoryCounts(t *testing.T) {
	records := []*event.Record{
		{Category: "Music"},
		{Category: "Festivals"},
		{Category: "Music"},
		{Category: "Arts"},
		{Category: "Festivals"},
		{Category: "Music"},
	}

	got := CategoryCounts(records)
	want := []CategoryCount{
		{Category: "Music", Count: 3},
		{Category: "Festivals", Count: 2},
		{Category: "Arts", Count: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d categories, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("counts[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestCategoryCountsTieBreak(t *testing.T) {
	records := []*event.Record{
		{Category: "Zoo"},
		{Category: "Arts"},
	}

	got := CategoryCounts(records)
	if got[0].Category != "Arts" || got[1].Category != "Zoo" {
		t.Errorf("equal counts should sort alphabetically, got %v then %v", got[0].Category, got[1].Category)
	}
}

func TestMonthCounts(t *testing.T) {
	records := []*event.Record{
		onDay(t, "2024-02-10"),
		onDay(t, "2023-12-25"),
		onDay(t, "2024-02-14"),
		onDay(t, "2024-01-05"),
	}

	got := MonthCounts(records)
	want := []MonthCount{
		{Year: 2023, Month: time.December, Count: 1},
		{Year: 2024, Month: time.January, Count: 1},
		{Year: 2024, Month: time.February, Count: 2},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d months, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("months[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	if got[0].Label() != "12/2023" {
		t.Errorf("Label() = %q, want 12/2023", got[0].Label())
	}
}

func TestWeekdayCountsMondayFirst(t *testing.T) {
	// 2024-03-10 is a Sunday, 2024-03-11 a Monday, 2024-03-13 a Wednesday.
	records := []*event.Record{
		onDay(t, "2024-03-10"),
		onDay(t, "2024-03-13"),
		onDay(t, "2024-03-11"),
		onDay(t, "2024-03-13"),
	}

	got := WeekdayCounts(records)
	want := []WeekdayCount{
		{Day: "Monday", Ordinal: 0, Count: 1},
		{Day: "Wednesday", Ordinal: 2, Count: 2},
		{Day: "Sunday", Ordinal: 6, Count: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d weekdays, want %d (days without events are omitted)", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("weekdays[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestBuildMarkers(t *testing.T) {
	good := "{47.60,-122.33}"
	bad := "{bad,data}"
	records := []*event.Record{
		{URL: "https://example.org/a", Title: "Plotted", Geolocation: &good, Date: time.Date(2024, 1, 15, 0, 0, 0, 0, event.Zone())},
		{URL: "https://example.org/b", Title: "Malformed", Geolocation: &bad},
		{URL: "https://example.org/c", Title: "Missing"},
	}

	markers, warnings := BuildMarkers(records)

	if len(markers) != 1 {
		t.Fatalf("got %d markers, want 1", len(markers))
	}
	m := markers[0]
	if m.Lat != 47.60 || m.Lon != -122.33 {
		t.Errorf("marker at (%v, %v), want (47.60, -122.33)", m.Lat, m.Lon)
	}
	if m.Title != "Plotted" || m.Date != "2024-01-15" {
		t.Errorf("marker metadata = %+v", m)
	}

	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(warnings))
	}
	wantWarning := "Error parsing geolocation for https://example.org/b: {bad,data}"
	if warnings[0] != wantWarning {
		t.Errorf("warning = %q, want %q", warnings[0], wantWarning)
	}
}
