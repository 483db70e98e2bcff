package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pass sources.
const (
	SourcePage  = "page"
	SourceQuery = "query"
	SourceAPI   = "api"
)

// Metrics holds the listings filter metrics.
type Metrics struct {
	FilterPasses *prometheus.CounterVec
	VisibleCards prometheus.Histogram
	NotFound     prometheus.Counter
}

// New registers the listings metrics with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		FilterPasses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "classifieds_listings_filter_passes_total",
			Help: "Number of listings filter passes",
		}, []string{"source"}),
		VisibleCards: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "classifieds_listings_filter_visible_cards",
			Help:    "Number of cards left visible by a filter pass",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}),
		NotFound: factory.NewCounter(prometheus.CounterOpts{
			Name: "classifieds_listings_not_found_total",
			Help: "Number of listing detail requests for unknown ids",
		}),
	}
}

func (m *Metrics) ObservePass(source string, visible int) {
	m.FilterPasses.WithLabelValues(source).Inc()
	m.VisibleCards.Observe(float64(visible))
}

func (m *Metrics) IncrementNotFound() {
	m.NotFound.Inc()
}
