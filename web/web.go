package web

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	"git.sr.ht/~mariusor/lw"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mariusor/render"

	"git.sr.ht/~mariusor/gni/concierge"
	"git.sr.ht/~mariusor/gni/events"
	"git.sr.ht/~mariusor/gni/ical"
	"git.sr.ht/~mariusor/gni/storage"
)

//go:embed templates
var templateFS embed.FS

// Submitter forwards concierge requests made through the HTML form.
type Submitter interface {
	Submit(context.Context, concierge.Request) concierge.Status
}

// Passes are the external purchase links shown next to the concierge actions.
type Passes struct {
	Lite    string
	Deposit string
}

var DefaultPasses = Passes{
	Lite:    "https://buy.stripe.com/your-lite-tonight-link",
	Deposit: "https://buy.stripe.com/your-whiteglove-deposit-link",
}

type Options struct {
	Version   string
	Catalog   *events.Catalog
	Store     storage.Store
	Routes    []events.Route
	Location  *time.Location
	Concierge Submitter
	Passes    Passes
	Logger    lw.Logger
}

type handler struct {
	version   string
	catalog   *events.Catalog
	store     storage.Store
	routes    []events.Route
	loc       *time.Location
	concierge Submitter
	passes    Passes

	ren     *render.Render
	metrics *metrics
	log     lw.Logger
}

var defaultRenderOptions = render.Options{
	Directory:  "templates",
	FileSystem: templateFS,
	Layout:     "layout",
	Extensions: []string{".html"},
	Funcs: []template.FuncMap{{
		"markdown": renderMarkdown,
		"hashtag":  hashtag,
		"inc":      func(i int) int { return i + 1 },
	}},
	Delims:          render.Delims{Left: "{{", Right: "}}"},
	Charset:         "UTF-8",
	HTMLContentType: "text/html",
}

func newHandler(o Options) *handler {
	h := handler{
		version:   o.Version,
		catalog:   o.Catalog,
		store:     o.Store,
		routes:    o.Routes,
		loc:       o.Location,
		concierge: o.Concierge,
		passes:    o.Passes,
		log:       o.Logger,
		ren:       render.New(defaultRenderOptions),
		metrics:   newMetrics(),
	}
	if h.log == nil {
		h.log = lw.Nil()
	}
	if h.store == nil {
		h.store = storage.NewMemory(nil)
	}
	if h.loc == nil {
		h.loc = time.UTC
	}
	if h.passes.Lite == "" {
		h.passes.Lite = DefaultPasses.Lite
	}
	if h.passes.Deposit == "" {
		h.passes.Deposit = DefaultPasses.Deposit
	}
	if h.concierge == nil {
		h.concierge = logSubmitter{log: h.log}
	}
	return &h
}

// New returns the router of the web front-end.
func New(o Options) http.Handler {
	h := newHandler(o)
	return h.router()
}

func (h *handler) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/", h.index)
	r.Get("/my-week", h.myWeek)
	r.Post("/saved/{id}", h.toggleSaved)
	r.Post("/routes/{index}", h.addRoute)
	r.Get("/concierge", h.conciergeForm)
	r.Post("/concierge", h.conciergeSubmit)

	r.Route("/api", func(r chi.Router) {
		r.Get("/events", h.apiEvents)
		r.Get("/events/{id}", h.apiEvent)
		r.Get("/options", h.apiOptions)
		r.Get("/routes", h.apiRoutes)
		r.Get("/saved", h.apiSaved)
		r.Post("/saved", h.apiAddSaved)
		r.Post("/saved/{id}", h.apiToggleSaved)
		r.Method(http.MethodPost, "/concierge", concierge.Handler(h.log, h.metrics.observeConcierge))
	})

	r.Mount("/calendar", ical.Routes(h.version, h.catalog, h.store, h.loc))
	r.Method(http.MethodGet, "/metrics", h.metrics.handler())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	return r
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.log.WithContext(lw.Ctx{
			"status":   ww.Status(),
			"duration": time.Since(start).String(),
		}).Debugf("%s %s", r.Method, r.URL.RequestURI())
	})
}

type logSubmitter struct {
	log lw.Logger
}

func (s logSubmitter) Submit(_ context.Context, req concierge.Request) concierge.Status {
	s.log.WithContext(lw.Ctx{"mode": req.Mode, "events": req.EventIDs}).Infof("Concierge request: %s", req.Title)
	return concierge.Sent
}
