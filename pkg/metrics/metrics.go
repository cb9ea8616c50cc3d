package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Auth metrics
	Registrations *prometheus.CounterVec
	Logins        *prometheus.CounterVec

	// Access control metrics
	AccessDecisions *prometheus.CounterVec

	// Identifier metrics
	IdentifiersAssigned *prometheus.CounterVec

	// Clinical record metrics
	RecordsCreated *prometheus.CounterVec
}

// NewMetrics creates and registers all application metrics on reg. Passing a
// fresh prometheus.NewRegistry() keeps tests isolated from the global one.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "registrations_total",
			Help:      "Total number of registrations by role",
		}, []string{"role"}),
		Logins: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Total number of login attempts by outcome",
		}, []string{"outcome"}),
		AccessDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "access",
			Name:      "decisions_total",
			Help:      "Total number of record access decisions",
		}, []string{"resource", "decision"}),
		IdentifiersAssigned: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sequence",
			Name:      "identifiers_assigned_total",
			Help:      "Total number of human readable identifiers assigned",
		}, []string{"sequence"}),
		RecordsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "medical",
			Name:      "records_created_total",
			Help:      "Total number of clinical records created",
		}, []string{"kind"}),
	}
}
