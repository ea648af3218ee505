package events

import (
	"testing"
	"time"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Art Miami", "art-miami"},
		{"CONTEXT Art Miami", "context-art-miami"},
		{"Superblue Miami — Immersive Art", "superblue-miami-immersive-art"},
		{"Wynwood Walls Museum: Only Human", "wynwood-walls-museum-only-human"},
		{"Untitled Art Miami Beach VIP & Press Preview", "untitled-art-miami-beach-vip-press-preview"},
		{"Café  del_Mar -- late", "caf-del_mar----late"},
		{" leading and trailing ", "-leading-and-trailing-"},
		{"tab\tand nbsp", "tab-and-nbsp"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.name); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestSlugifyLength(t *testing.T) {
	long := "Miami Art Week at Faena Library of Us Reading Room Tracing Time Tropical Stomping Grounds and more"
	got := Slugify(long)
	if len(got) != maxIDLength {
		t.Fatalf("expected slug length %d, got %d: %q", maxIDLength, len(got), got)
	}
	if Slugify(long) != got {
		t.Errorf("slug is not stable")
	}
}

func TestFormatDateRange(t *testing.T) {
	tests := []struct {
		start, end string
		want       string
	}{
		{"2025-12-03", "2025-12-03", "Dec 3"},
		{"2025-12-03", "2025-12-05", "Dec 3 – Dec 5"},
		{"2025-12-03", "", "Dec 3"},
		{"", "2025-01-05", "Jan 5"},
		{"", "", ""},
		{"2025-12-03T20:00:00Z", "", "Dec 3"},
		{"soon", "", "soon"},
	}
	for _, tt := range tests {
		if got := FormatDateRange(tt.start, tt.end); got != tt.want {
			t.Errorf("FormatDateRange(%q, %q) = %q, want %q", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestFormatTimeRange(t *testing.T) {
	tests := []struct {
		start, end string
		want       string
	}{
		{"19:00", "23:30", "7PM – 11:30PM"},
		{"00:00", "", "12AM"},
		{"12:05", "", "12:05PM"},
		{"", "09:15", "9:15AM"},
		{"", "", ""},
		{"late", "02:00", "2AM"},
		{"11:00", "late", "11AM"},
	}
	for _, tt := range tests {
		if got := FormatTimeRange(tt.start, tt.end); got != tt.want {
			t.Errorf("FormatTimeRange(%q, %q) = %q, want %q", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestNormalizeFieldResolution(t *testing.T) {
	rows := []Row{
		{
			"title":          "  Jazz at the Basel Lounge ",
			"Name":           "ignored",
			"date_start":     "2025-12-03",
			"date_end":       "2025-12-05",
			"time_start_24h": "19:00",
			"time_end_24h":   "23:30",
			"venue":          "The Lounge",
			"address":        "1 Ocean Dr",
			"area":           "",
			"area_norm":      "South Beach",
			"price":          "$20",
			"Notes":          "display style notes",
		},
		{
			"Name":                       "Display Style",
			"Date range":                 "Dec 4 – Dec 6",
			"Time":                       "All day",
			"Location (venue + address)": "Somewhere, Miami",
			"Type":                       "Party",
			"Neighborhood":               "Wynwood",
			"Producer/curator":           "The Collective",
			"RSVP / ticket link":         "https://example.com/rsvp",

			"Cost (free / ticketed + notes)": "Free",
		},
		{},
	}

	list := Normalize(rows, NewFeatured(95))
	if len(list) != len(rows) {
		t.Fatalf("expected %d events, got %d", len(rows), len(list))
	}

	jazz := list[0]
	if jazz.Name != "Jazz at the Basel Lounge" {
		t.Errorf("unexpected name %q", jazz.Name)
	}
	if jazz.ID != "jazz-at-the-basel-lounge" {
		t.Errorf("unexpected id %q", jazz.ID)
	}
	if jazz.DateRange != "Dec 3 – Dec 5" {
		t.Errorf("unexpected date range %q", jazz.DateRange)
	}
	if jazz.Time != "7PM – 11:30PM" {
		t.Errorf("unexpected time %q", jazz.Time)
	}
	if jazz.Location != "The Lounge, 1 Ocean Dr" {
		t.Errorf("unexpected location %q", jazz.Location)
	}
	if jazz.Neighborhood != "South Beach" {
		t.Errorf("unexpected neighborhood %q", jazz.Neighborhood)
	}
	if jazz.Type != DefaultType {
		t.Errorf("expected default type, got %q", jazz.Type)
	}
	if jazz.Cost != "$20" || jazz.Notes != "display style notes" {
		t.Errorf("unexpected cost/notes %q/%q", jazz.Cost, jazz.Notes)
	}

	display := list[1]
	if display.Name != "Display Style" || display.DateRange != "Dec 4 – Dec 6" || display.Time != "All day" {
		t.Errorf("unexpected display style event %#v", display)
	}
	if display.Location != "Somewhere, Miami" || display.Type != "Party" || display.Neighborhood != "Wynwood" {
		t.Errorf("unexpected display style classification %#v", display)
	}
	if display.Producer != "The Collective" || display.RSVPLink != "https://example.com/rsvp" || display.Cost != "Free" {
		t.Errorf("unexpected display style optional fields %#v", display)
	}

	empty := list[2]
	if empty.Name != DefaultName || empty.ID != "untitled" || empty.Type != DefaultType {
		t.Errorf("unexpected defaults %#v", empty)
	}
	if empty.DateRange != "" || empty.Time != "" || empty.Location != "" || empty.Neighborhood != "" {
		t.Errorf("expected empty free text fields %#v", empty)
	}
}

func TestNormalizeSameNameSameID(t *testing.T) {
	rows := []Row{{"title": "Twin"}, {"Name": "Twin", "notes": "second"}}
	list := Normalize(rows, NewFeatured(95))
	if list[0].ID != list[1].ID {
		t.Errorf("expected identical ids, got %q and %q", list[0].ID, list[1].ID)
	}
}

func TestNormalizeFeaturedOrder(t *testing.T) {
	rows := []Row{
		{"title": "Zeta"},
		{"title": "Art Miami"},
		{"title": "Alpha"},
		{"title": "NADA Miami"},
	}
	list := Normalize(rows, DefaultFeatured())

	wantOrder := []string{"art-miami", "nada-miami", "zeta", "alpha"}
	for i, id := range wantOrder {
		if list[i].ID != id {
			t.Fatalf("position %d: expected %q, got %q (%s)", i, id, list[i].ID, list)
		}
	}
	for _, e := range list[:2] {
		if !e.TonightFeatured || e.CuratorPickScore != DefaultFeaturedScore {
			t.Errorf("expected %q to be featured with score %d: %#v", e.ID, DefaultFeaturedScore, e)
		}
	}
	for _, e := range list[2:] {
		if e.TonightFeatured || e.CuratorPickScore != 0 {
			t.Errorf("expected %q not to be featured: %#v", e.ID, e)
		}
	}
}

func TestNormalizeAlternateAllowList(t *testing.T) {
	rows := []Row{{"title": "Art Miami"}, {"title": "Local Pick"}}
	list := Normalize(rows, NewFeatured(10, "local-pick"))
	if list[0].ID != "local-pick" || !list[0].TonightFeatured || list[0].CuratorPickScore != 10 {
		t.Errorf("expected local pick to be featured first: %s", list)
	}
	if list[1].TonightFeatured {
		t.Errorf("art-miami should not be featured with an alternate allow-list")
	}
}

func TestNormalizeInstants(t *testing.T) {
	rows := []Row{
		{"title": "Timed", "date_start": "2025-12-03", "time_start_24h": "22:00", "time_end_24h": "02:00"},
		{"title": "All day", "date_start": "2025-12-03", "date_end": "2025-12-04"},
		{"title": "Open end", "date_start": "2025-12-03", "time_start_24h": "19:30"},
		{"title": "Unknown"},
	}
	list := Normalize(rows, NewFeatured(0))

	timed := list[0]
	if want := time.Date(2025, 12, 3, 22, 0, 0, 0, time.UTC); !timed.Start.Equal(want) {
		t.Errorf("unexpected start %s", timed.Start)
	}
	if want := time.Date(2025, 12, 4, 2, 0, 0, 0, time.UTC); !timed.End.Equal(want) {
		t.Errorf("unexpected end %s", timed.End)
	}

	allDay := list[1]
	if !allDay.AllDay || !allDay.End.Equal(time.Date(2025, 12, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected all day event %v - %v", allDay.Start, allDay.End)
	}

	open := list[2]
	if open.End.Sub(open.Start) != defaultEventDuration {
		t.Errorf("unexpected duration %s", open.End.Sub(open.Start))
	}

	if !list[3].Start.IsZero() || !list[3].End.IsZero() {
		t.Errorf("expected no instants for an event without dates")
	}
}
