package web

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-ap/errors"
	"github.com/go-chi/chi/v5"

	"git.sr.ht/~mariusor/gni/concierge"
	"git.sr.ht/~mariusor/gni/events"
	"git.sr.ht/~mariusor/gni/storage"
)

type card struct {
	events.Event
	Saved bool
	Back  string
}

func cards(list events.Events, sel storage.Selection, back string) []card {
	res := make([]card, len(list))
	for i, e := range list {
		res[i] = card{Event: e, Saved: sel.Contains(e.ID), Back: back}
	}
	return res
}

type page struct {
	Title  string
	Passes Passes
	Saved  int
}

type indexPage struct {
	page
	Query   events.Query
	Options events.Options
	Routes  []events.Stops
	Cards   []card
}

type myWeekPage struct {
	page
	Cards []card
}

func queryFrom(r *http.Request) events.Query {
	v := r.URL.Query()
	return events.Query{
		Text:         v.Get("q"),
		Type:         v.Get("type"),
		Neighborhood: v.Get("neighborhood"),
		TonightOnly:  isTrue(v.Get("tonight")),
	}
}

func isTrue(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// backURL returns the local path a form wants to return to.
func backURL(r *http.Request, def string) string {
	back := r.FormValue("back")
	if !strings.HasPrefix(back, "/") || strings.HasPrefix(back, "//") {
		return def
	}
	return back
}

func (h *handler) index(w http.ResponseWriter, r *http.Request) {
	h.metrics.queries.WithLabelValues("html").Inc()

	q := queryFrom(r)
	sel := h.store.Load()
	data := indexPage{
		page:    page{Title: "Tonight", Passes: h.passes, Saved: sel.Len()},
		Query:   q,
		Options: h.catalog.Options(),
		Routes:  h.catalog.Routes(h.routes),
		Cards:   cards(h.catalog.Filter(q), sel, r.URL.RequestURI()),
	}
	h.html(w, "index", data)
}

func (h *handler) myWeek(w http.ResponseWriter, r *http.Request) {
	sel := h.store.Load()
	saved := h.catalog.Events().Select(func(e events.Event) bool {
		return sel.Contains(e.ID)
	})
	data := myWeekPage{
		page:  page{Title: "My Week", Passes: h.passes, Saved: sel.Len()},
		Cards: cards(saved, sel, "/my-week"),
	}
	h.html(w, "my-week", data)
}

func (h *handler) toggleSaved(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := storage.Toggle(h.store, id); err != nil {
		h.errorHTML(w, errors.Annotatef(err, "unable to save %s", id))
		return
	}
	h.metrics.selection.WithLabelValues("toggle").Inc()
	http.Redirect(w, r, backURL(r, "/"), http.StatusSeeOther)
}

func (h *handler) route(r *http.Request) (events.Stops, error) {
	raw := chi.URLParam(r, "index")
	if raw == "" {
		raw = r.FormValue("route")
	}
	idx, err := strconv.Atoi(raw)
	if err != nil {
		return events.Stops{}, errors.BadRequestf("invalid route %q", raw)
	}
	for _, s := range h.catalog.Routes(h.routes) {
		if s.Index == idx {
			return s, nil
		}
	}
	return events.Stops{}, errors.NotFoundf("route %d", idx)
}

func (h *handler) addRoute(w http.ResponseWriter, r *http.Request) {
	s, err := h.route(r)
	if err != nil {
		h.errorHTML(w, err)
		return
	}
	if _, err := storage.Add(h.store, s.IDs()...); err != nil {
		h.errorHTML(w, errors.Annotatef(err, "unable to save route %s", s.Title))
		return
	}
	h.metrics.selection.WithLabelValues("route").Inc()
	http.Redirect(w, r, backURL(r, "/"), http.StatusSeeOther)
}

func (h *handler) html(w http.ResponseWriter, name string, data any) {
	if err := h.ren.HTML(w, http.StatusOK, name, data); err != nil {
		h.log.Errorf("Unable to render %s: %s", name, err)
	}
}

func status(err error) int {
	switch {
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case errors.IsBadRequest(err):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

type errorPage struct {
	page
	Status  int
	Message string
}

func (h *handler) errorHTML(w http.ResponseWriter, err error) {
	st := status(err)
	if st == http.StatusInternalServerError {
		h.log.Errorf("%s", err)
	}
	data := errorPage{
		page:    page{Title: http.StatusText(st), Passes: h.passes},
		Status:  st,
		Message: err.Error(),
	}
	if err := h.ren.HTML(w, st, "error", data); err != nil {
		h.log.Errorf("Unable to render error page: %s", err)
	}
}

type apiError struct {
	Error string `json:"error"`
}

func (h *handler) json(w http.ResponseWriter, st int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(st)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Errorf("Unable to encode response: %s", err)
	}
}

func (h *handler) errorJSON(w http.ResponseWriter, err error) {
	st := status(err)
	if st == http.StatusInternalServerError {
		h.log.Errorf("%s", err)
	}
	h.json(w, st, apiError{Error: err.Error()})
}

func (h *handler) apiEvents(w http.ResponseWriter, r *http.Request) {
	h.metrics.queries.WithLabelValues("json").Inc()
	h.json(w, http.StatusOK, h.catalog.Filter(queryFrom(r)))
}

func (h *handler) apiEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	e, ok := h.catalog.ByID(id)
	if !ok {
		h.errorJSON(w, errors.NotFoundf("event %s", id))
		return
	}
	h.json(w, http.StatusOK, e)
}

func (h *handler) apiOptions(w http.ResponseWriter, r *http.Request) {
	h.json(w, http.StatusOK, h.catalog.Options())
}

func (h *handler) apiRoutes(w http.ResponseWriter, r *http.Request) {
	h.json(w, http.StatusOK, h.catalog.Routes(h.routes))
}

func (h *handler) apiSaved(w http.ResponseWriter, r *http.Request) {
	h.json(w, http.StatusOK, h.store.Load())
}

func (h *handler) apiToggleSaved(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sel, err := storage.Toggle(h.store, id)
	if err != nil {
		h.errorJSON(w, errors.Annotatef(err, "unable to save %s", id))
		return
	}
	h.metrics.selection.WithLabelValues("toggle").Inc()
	h.json(w, http.StatusOK, sel)
}

// apiAddSaved adds a JSON array of ids to the saved events.
func (h *handler) apiAddSaved(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		h.errorJSON(w, errors.Annotatef(err, "unable to read request"))
		return
	}
	ids := make([]string, 0)
	if err := json.Unmarshal(raw, &ids); err != nil {
		h.errorJSON(w, errors.BadRequestf("expected a list of event ids"))
		return
	}
	sel, err := storage.Add(h.store, ids...)
	if err != nil {
		h.errorJSON(w, errors.Annotatef(err, "unable to save events"))
		return
	}
	h.metrics.selection.WithLabelValues("add").Inc()
	h.json(w, http.StatusOK, sel)
}

type conciergePage struct {
	page
	Mode    concierge.Mode
	Target  string
	Event   string
	Route   string
	Stops   events.Events
	Prefs   concierge.Preferences
	Budgets []concierge.Budget
	Vibes   []concierge.Vibe
	Status  string
	Sent    bool
}

// target resolves what the concierge is asked about from the "event" or
// "route" form values. Without either it is a brief of the saved events.
func (h *handler) target(r *http.Request) (concierge.Target, error) {
	if id := r.FormValue("event"); id != "" {
		e, ok := h.catalog.ByID(id)
		if !ok {
			return nil, errors.NotFoundf("event %s", id)
		}
		return concierge.EventTarget{Event: e}, nil
	}
	if r.FormValue("route") != "" {
		s, err := h.route(r)
		if err != nil {
			return nil, err
		}
		return concierge.RouteTarget{Name: s.Title, IDs: s.IDs()}, nil
	}
	return concierge.RouteTarget{Name: concierge.CustomBriefTitle, IDs: h.store.Load().IDs()}, nil
}

func preferencesFrom(r *http.Request) concierge.Preferences {
	p := concierge.DefaultPreferences()
	if n, err := strconv.Atoi(r.FormValue("party_size")); err == nil {
		p.PartySize = n
	}
	if p.PartySize < 1 {
		p.PartySize = 1
	}
	for _, b := range concierge.Budgets {
		if string(b) == r.FormValue("budget") {
			p.Budget = b
		}
	}
	for _, v := range concierge.Vibes {
		if string(v) == r.FormValue("vibe") {
			p.Vibe = v
		}
	}
	p.Notes = strings.TrimSpace(r.FormValue("notes"))
	return p
}

func (h *handler) conciergePage(r *http.Request, t concierge.Target, p concierge.Preferences) conciergePage {
	return conciergePage{
		page:    page{Title: "Concierge", Passes: h.passes, Saved: h.store.Load().Len()},
		Mode:    t.Mode(),
		Target:  t.Title(),
		Event:   r.FormValue("event"),
		Route:   r.FormValue("route"),
		Stops:   h.catalog.Events().Resolve(t.EventIDs()...),
		Prefs:   p,
		Budgets: concierge.Budgets,
		Vibes:   concierge.Vibes,
	}
}

func (h *handler) conciergeForm(w http.ResponseWriter, r *http.Request) {
	t, err := h.target(r)
	if err != nil {
		h.errorHTML(w, err)
		return
	}
	h.html(w, "concierge", h.conciergePage(r, t, concierge.DefaultPreferences()))
}

func (h *handler) conciergeSubmit(w http.ResponseWriter, r *http.Request) {
	t, err := h.target(r)
	if err != nil {
		h.errorHTML(w, err)
		return
	}
	p := preferencesFrom(r)
	st := h.concierge.Submit(r.Context(), concierge.NewRequest(t, p))

	data := h.conciergePage(r, t, p)
	data.Status = st.String()
	data.Sent = st == concierge.Sent
	h.html(w, "concierge", data)
}
