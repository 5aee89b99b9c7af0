package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors for checkout outcomes.
type Metrics struct {
	TransactionsCreated *prometheus.CounterVec
	ReservationsLost    *prometheus.CounterVec
}

// New registers the checkout collectors on reg and returns them.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TransactionsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pos",
			Name:      "transactions_created_total",
			Help:      "Transactions persisted per tenant.",
		}, []string{"tenant_id"}),
		ReservationsLost: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pos",
			Name:      "stock_reservations_lost_total",
			Help:      "Per-item stock reservations that lost their race during checkout commit.",
		}, []string{"tenant_id"}),
	}
	reg.MustRegister(m.TransactionsCreated, m.ReservationsLost)
	return m
}
