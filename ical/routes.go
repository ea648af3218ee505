package ical

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"git.sr.ht/~mariusor/gni/storage"
)

// Routes mounts the saved events feed and the per event calendars.
func Routes(version string, c Lister, saved storage.Loader, loc *time.Location) http.Handler {
	r := chi.NewRouter()
	r.Method(http.MethodGet, "/my-week.ics", NewHandler(version, c, saved, loc))
	r.Method(http.MethodGet, "/events/{id}.ics", NewEventHandler(version, c, loc))
	return r
}
