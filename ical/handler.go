package ical

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/soh335/ical"

	"git.sr.ht/~mariusor/gni/events"
	"git.sr.ht/~mariusor/gni/storage"
)

// Lister returns the events in their baseline order.
type Lister interface {
	Events() events.Events
}

type cal struct {
	Version  string
	Catalog  Lister
	Saved    storage.Loader
	Location *time.Location

	now func() time.Time
}

func newCal(version string, c Lister, saved storage.Loader, loc *time.Location) cal {
	if loc == nil {
		loc = time.UTC
	}
	return cal{Version: version, Catalog: c, Saved: saved, Location: loc, now: time.Now}
}

// NewHandler serves the saved events as a calendar feed.
func NewHandler(version string, c Lister, saved storage.Loader, loc *time.Location) http.Handler {
	return newCal(version, c, saved, loc)
}

// NewEventHandler serves a single event, identified by the "id" URL parameter, as a calendar.
func NewEventHandler(version string, c Lister, loc *time.Location) http.Handler {
	h := newCal(version, c, nil, loc)
	return http.HandlerFunc(h.serveEvent)
}

func (c cal) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sel := storage.Selection{}
	if c.Saved != nil {
		sel = c.Saved.Load()
	}
	saved := c.Catalog.Events().Select(func(e events.Event) bool {
		return sel.Contains(e.ID)
	})
	vcal := c.calendar("My Week", "GNI Picks, saved events")
	appendEvents(vcal, saved, c.now(), c.Location)
	write(w, vcal)
}

func (c cal) serveEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ev, ok := c.Catalog.Events().ByID(id)
	if !ok || ev.Start.IsZero() {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(fmt.Sprintf("Invalid event %s", id)))
		return
	}
	vcal := c.calendar(ev.Name, ev.Schedule())
	appendEvents(vcal, events.Events{ev}, c.now(), c.Location)
	write(w, vcal)
}

func (c cal) calendar(name, description string) *ical.VCalendar {
	vcal := ical.NewBasicVCalendar()
	vcal.PRODID = fmt.Sprintf("-//GNI//PICKS//EN/%s", c.Version)
	vcal.VERSION = "2.0"

	vcal.NAME = name
	vcal.X_WR_CALNAME = name
	vcal.DESCRIPTION = description
	vcal.X_WR_CALDESC = description

	tz := c.Location.String()
	vcal.TIMEZONE_ID = tz
	vcal.X_WR_TIMEZONE = tz

	vcal.REFRESH_INTERVAL = "PT1H"
	vcal.X_PUBLISHED_TTL = "PT1H"
	vcal.CALSCALE = "GREGORIAN"
	vcal.METHOD = "PUBLISH"
	return vcal
}

// appendEvents adds the events with a known start to the calendar.
func appendEvents(vcal *ical.VCalendar, list events.Events, stamp time.Time, loc *time.Location) {
	for _, ev := range list {
		if ev.Start.IsZero() {
			continue
		}
		e := &ical.VEvent{
			UID:         fmt.Sprintf("%s@gni", ev.ID),
			DTSTAMP:     stamp,
			DTSTART:     ev.Start,
			DTEND:       ev.End,
			SUMMARY:     ev.Name,
			DESCRIPTION: description(ev),
			TZID:        loc.String(),
			AllDay:      ev.AllDay,
		}
		vcal.VComponent = append(vcal.VComponent, e)
	}
}

func description(ev events.Event) string {
	b := bytes.Buffer{}
	for _, line := range []string{ev.Place(), ev.Notes, ev.Cost, ev.OfficialLink} {
		if line == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(line)
	}
	return b.String()
}

func write(w http.ResponseWriter, vcal *ical.VCalendar) {
	b := &bytes.Buffer{}
	if err := vcal.Encode(b); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(fmt.Sprintf("%s", err)))
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(b.Bytes())
}
