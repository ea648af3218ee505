package events

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Row is a single line of tabular source data, keyed by its column header.
// Columns are not guaranteed to be present.
type Row map[string]string

const (
	DefaultName = "Untitled"
	DefaultType = "Other"

	maxIDLength    = 80
	rangeSeparator = " – "
)

// candidate extracts one possible value for a field out of a row.
type candidate func(Row) string

func column(name string) candidate {
	return func(r Row) string {
		return r[name]
	}
}

func trimmed(name string) candidate {
	return func(r Row) string {
		return strings.TrimSpace(r[name])
	}
}

func joined(sep string, names ...string) candidate {
	return func(r Row) string {
		values := make([]string, len(names))
		for i, n := range names {
			values[i] = r[n]
		}
		return joinNonEmpty(sep, values...)
	}
}

func dateRange(start, end string) candidate {
	return func(r Row) string {
		return FormatDateRange(r[start], r[end])
	}
}

func timeRange(start, end string) candidate {
	return func(r Row) string {
		return FormatTimeRange(r[start], r[end])
	}
}

type field struct {
	candidates []candidate
	def        string
	set        func(*Event, string)
}

// resolve returns the first non-empty candidate value, or the field default.
func (f field) resolve(r Row) string {
	for _, c := range f.candidates {
		if v := c(r); v != "" {
			return v
		}
	}
	return f.def
}

// fields lists, for every Event field, the source columns it can be loaded from in priority order.
var fields = []field{
	{
		candidates: []candidate{trimmed("title"), trimmed("Name")},
		def:        DefaultName,
		set:        func(e *Event, v string) { e.Name = v },
	},
	{
		candidates: []candidate{column("date"), column("Date range"), dateRange("date_start", "date_end")},
		set:        func(e *Event, v string) { e.DateRange = v },
	},
	{
		candidates: []candidate{column("time"), column("Time"), timeRange("time_start_24h", "time_end_24h")},
		set:        func(e *Event, v string) { e.Time = v },
	},
	{
		candidates: []candidate{column("venue_address"), joined(", ", "venue", "address"), column("Location (venue + address)")},
		set:        func(e *Event, v string) { e.Location = v },
	},
	{
		candidates: []candidate{column("category"), column("Type")},
		def:        DefaultType,
		set:        func(e *Event, v string) { e.Type = v },
	},
	{
		candidates: []candidate{column("area"), column("area_norm"), column("Neighborhood")},
		set:        func(e *Event, v string) { e.Neighborhood = v },
	},
	{
		candidates: []candidate{column("producer"), column("Producer/curator")},
		set:        func(e *Event, v string) { e.Producer = v },
	},
	{
		candidates: []candidate{column("sponsors"), column("Sponsors/partners")},
		set:        func(e *Event, v string) { e.Sponsors = v },
	},
	{
		candidates: []candidate{column("access"), column("Access (public / RSVP / VIP)")},
		set:        func(e *Event, v string) { e.Access = v },
	},
	{
		candidates: []candidate{column("price"), column("Cost (free / ticketed + notes)")},
		set:        func(e *Event, v string) { e.Cost = v },
	},
	{
		candidates: []candidate{column("rsvp_link"), column("RSVP / ticket link")},
		set:        func(e *Event, v string) { e.RSVPLink = v },
	},
	{
		candidates: []candidate{column("info_link"), column("Info / article link")},
		set:        func(e *Event, v string) { e.InfoLink = v },
	},
	{
		candidates: []candidate{column("official_link"), column("Official event page")},
		set:        func(e *Event, v string) { e.OfficialLink = v },
	},
	{
		candidates: []candidate{column("notes"), column("Notes")},
		set:        func(e *Event, v string) { e.Notes = v },
	},
}

// Normalizer turns source rows into Events.
type Normalizer struct {
	Featured Featured
	// Location is used for the Start/End instants, it defaults to UTC.
	Location *time.Location
}

// Normalize uses the default location, see Normalizer.Normalize.
func Normalize(rows []Row, featured Featured) Events {
	return Normalizer{Featured: featured}.Normalize(rows)
}

// Normalize returns one Event for every row received, featured events first.
// Missing or malformed values fall back to the field defaults, it never fails.
func (n Normalizer) Normalize(rows []Row) Events {
	list := make(Events, 0, len(rows))
	for _, r := range rows {
		list = append(list, n.record(r))
	}
	for i := range list {
		n.Featured.apply(&list[i])
	}
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.TonightFeatured != b.TonightFeatured {
			return a.TonightFeatured
		}
		return a.CuratorPickScore > b.CuratorPickScore
	})
	return list
}

func (n Normalizer) record(r Row) Event {
	e := Event{}
	for _, f := range fields {
		f.set(&e, f.resolve(r))
	}
	e.ID = Slugify(e.Name)

	loc := n.Location
	if loc == nil {
		loc = time.UTC
	}
	e.Start, e.End, e.AllDay = instants(r, loc)
	return e
}

// Slugify builds the identifier of an event out of its name.
// Only ASCII letters, digits, underscores, hyphens and white space are kept,
// white space runs are replaced with a single hyphen.
func Slugify(s string) string {
	b := strings.Builder{}
	space := false
	for _, r := range strings.ToLower(s) {
		if isSpace(r) {
			space = true
			continue
		}
		if !isWordRune(r) && r != '-' {
			continue
		}
		if space {
			b.WriteByte('-')
			space = false
		}
		b.WriteRune(r)
	}
	if space {
		b.WriteByte('-')
	}
	id := b.String()
	if len(id) > maxIDLength {
		id = id[:maxIDLength]
	}
	return id
}

// isSpace matches the \s class of ECMAScript regular expressions.
func isSpace(r rune) bool {
	switch r {
	case '\uFEFF':
		return true
	case '\u0085':
		return false
	}
	return unicode.IsSpace(r)
}

func isWordRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006/01/02",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

func formatDate(s string) string {
	d, ok := parseDate(s)
	if !ok {
		return s
	}
	return d.Format("Jan 2")
}

// FormatDateRange renders a short month and day for the received dates: "Dec 3 – Dec 5".
// Equal dates are rendered once, a missing bound is skipped.
func FormatDateRange(start, end string) string {
	switch {
	case start == "" && end == "":
		return ""
	case end == "":
		return formatDate(start)
	case start == "":
		return formatDate(end)
	case start == end:
		return formatDate(start)
	}
	return formatDate(start) + rangeSeparator + formatDate(end)
}

// clock parses the hours and minutes of a 24h "HH:MM" value.
// An empty hours part counts as midnight, invalid minutes count as zero.
func clock(t24 string) (int, int, bool) {
	if t24 == "" {
		return 0, 0, false
	}
	parts := strings.Split(t24, ":")
	h := 0
	if hRaw := strings.TrimSpace(parts[0]); hRaw != "" {
		var err error
		if h, err = strconv.Atoi(hRaw); err != nil {
			return 0, 0, false
		}
	}
	m := 0
	if len(parts) > 1 {
		m, _ = strconv.Atoi(strings.TrimSpace(parts[1]))
	}
	return h, m, true
}

func toTwelveHour(t24 string) string {
	h, m, ok := clock(t24)
	if !ok {
		return ""
	}
	hours := ((h + 11) % 12) + 1
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	if m == 0 {
		return fmt.Sprintf("%d%s", hours, suffix)
	}
	return fmt.Sprintf("%d:%02d%s", hours, m, suffix)
}

// FormatTimeRange converts 24h "HH:MM" bounds to a 12h range: "7PM – 11:30PM".
func FormatTimeRange(from, to string) string {
	start := toTwelveHour(from)
	end := toTwelveHour(to)
	if start != "" && end != "" {
		return start + rangeSeparator + end
	}
	if start != "" {
		return start
	}
	return end
}

const defaultEventDuration = 2 * time.Hour

func instants(r Row, loc *time.Location) (time.Time, time.Time, bool) {
	ds, ok := parseDate(r["date_start"])
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	de, ok := parseDate(r["date_end"])
	if !ok {
		de = ds
	}
	at := func(d time.Time, h, m int) time.Time {
		return time.Date(d.Year(), d.Month(), d.Day(), h, m, 0, 0, loc)
	}

	sh, sm, ok := clock(r["time_start_24h"])
	if !ok {
		return at(ds, 0, 0), at(de, 0, 0).AddDate(0, 0, 1), true
	}
	start := at(ds, sh, sm)
	eh, em, ok := clock(r["time_end_24h"])
	if !ok {
		return start, start.Add(defaultEventDuration), false
	}
	end := at(de, eh, em)
	if !end.After(start) {
		// past midnight
		end = end.AddDate(0, 0, 1)
	}
	return start, end, false
}
