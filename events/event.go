package events

import (
	"fmt"
	"strings"
	"time"
)

type Event struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DateRange    string `json:"dateRange"`
	Time         string `json:"time"`
	Neighborhood string `json:"neighborhood"`
	Location     string `json:"location"`
	Type         string `json:"type"`
	Producer     string `json:"producer,omitempty"`
	Sponsors     string `json:"sponsors,omitempty"`
	Access       string `json:"access,omitempty"`
	Cost         string `json:"cost,omitempty"`
	RSVPLink     string `json:"rsvpLink,omitempty"`
	InfoLink     string `json:"infoLink,omitempty"`
	OfficialLink string `json:"officialLink,omitempty"`
	Notes        string `json:"notes,omitempty"`

	TonightFeatured  bool `json:"tonightFeatured"`
	CuratorPickScore int  `json:"curatorPickScore"`

	// Start and End are only known when the source has separate date columns.
	Start  time.Time `json:"-"`
	End    time.Time `json:"-"`
	AllDay bool      `json:"-"`
}

type Events []Event

func (e Event) String() string {
	return e.GoString()
}

func (e Event) GoString() string {
	f := "<[%s] %s"
	args := []any{e.ID, e.Name}
	if sched := e.Schedule(); sched != "" {
		f += " @ %s"
		args = append(args, sched)
	}
	if e.TonightFeatured {
		f += " *%d"
		args = append(args, e.CuratorPickScore)
	}
	return fmt.Sprintf(f+">", args...)
}

// Schedule joins the time and the date range of the event, skipping empty values.
func (e Event) Schedule() string {
	return joinNonEmpty(" · ", e.Time, e.DateRange)
}

// Place joins the location and the neighborhood of the event, skipping empty values.
func (e Event) Place() string {
	return joinNonEmpty(" · ", e.Location, e.Neighborhood)
}

func (e Events) String() string {
	return e.GoString()
}

func (e Events) GoString() string {
	ss := make([]string, len(e))
	for i, ev := range e {
		ss[i] = ev.GoString()
	}
	return fmt.Sprintf("Events[%d]:\n\t%s\n", len(e), strings.Join(ss, "\n\t"))
}

// ByID returns the first event with the received id.
func (e Events) ByID(id string) (Event, bool) {
	for _, ev := range e {
		if ev.ID == id {
			return ev, true
		}
	}
	return Event{}, false
}

// Resolve returns the events matching ids, in the order of ids. Unknown ids are skipped.
func (e Events) Resolve(ids ...string) Events {
	res := make(Events, 0, len(ids))
	for _, id := range ids {
		if ev, ok := e.ByID(id); ok {
			res = append(res, ev)
		}
	}
	return res
}

// Select returns the events for which keep returns true, preserving the list order.
func (e Events) Select(keep func(Event) bool) Events {
	res := make(Events, 0)
	for _, ev := range e {
		if keep(ev) {
			res = append(res, ev)
		}
	}
	return res
}

func joinNonEmpty(sep string, values ...string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, sep)
}
