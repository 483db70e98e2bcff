package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for cookie consent decisions.
type Metrics struct {
	DecisionsSaved  *prometheus.CounterVec
	RecordsLoaded   *prometheus.CounterVec
	CategoryApplied *prometheus.CounterVec
	BannersShown    prometheus.Counter
	Revocations     prometheus.Counter
}

// New registers consent metrics on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		DecisionsSaved: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "classifieds_consent_decisions_total",
			Help: "Consent choices saved, labeled by outcome (accepted, refused, partial)",
		}, []string{"outcome"}),
		RecordsLoaded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "classifieds_consent_loads_total",
			Help: "Consent record lookups, labeled by result (valid, absent, malformed, expired)",
		}, []string{"result"}),
		CategoryApplied: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "classifieds_consent_category_applied_total",
			Help: "Applied consent per cookie category and granted flag",
		}, []string{"category", "granted"}),
		BannersShown: factory.NewCounter(prometheus.CounterOpts{
			Name: "classifieds_consent_banners_shown_total",
			Help: "Number of times the consent banner was mounted",
		}),
		Revocations: factory.NewCounter(prometheus.CounterOpts{
			Name: "classifieds_consent_revocations_total",
			Help: "Number of consent revocations",
		}),
	}
}

func (m *Metrics) IncrementDecisionsSaved(outcome string) {
	m.DecisionsSaved.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementRecordsLoaded(result string) {
	m.RecordsLoaded.WithLabelValues(result).Inc()
}

func (m *Metrics) IncrementCategoryApplied(category string, granted bool) {
	label := "false"
	if granted {
		label = "true"
	}
	m.CategoryApplied.WithLabelValues(category, label).Inc()
}

func (m *Metrics) IncrementBannersShown() {
	m.BannersShown.Inc()
}

func (m *Metrics) IncrementRevocations() {
	m.Revocations.Inc()
}
