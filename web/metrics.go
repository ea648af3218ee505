package web

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"git.sr.ht/~mariusor/gni/concierge"
)

type metrics struct {
	reg       *prometheus.Registry
	queries   *prometheus.CounterVec
	selection *prometheus.CounterVec
	concierge *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := metrics{
		reg: prometheus.NewRegistry(),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gni_event_queries_total",
			Help: "Number of event list queries.",
		}, []string{"format"}),
		selection: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gni_selection_updates_total",
			Help: "Number of changes to the saved events.",
		}, []string{"op"}),
		concierge: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gni_concierge_requests_total",
			Help: "Number of acknowledged concierge requests.",
		}, []string{"mode"}),
	}
	m.reg.MustRegister(m.queries, m.selection, m.concierge)
	return &m
}

func (m *metrics) observeConcierge(req concierge.Request) {
	m.concierge.WithLabelValues(modeLabel(req.Mode)).Inc()
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// modeLabel keeps the label values to the known modes.
func modeLabel(mode concierge.Mode) string {
	switch mode {
	case concierge.ModeEvent, concierge.ModeRoute:
		return string(mode)
	}
	return "other"
}
