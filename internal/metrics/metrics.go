package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	MessagesTotal       prometheus.Counter
	OrdersCreated       prometheus.Counter
	DeliveriesConfirmed *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers the service counters with reg. Pass nil to use the default
// registry. Handler serves whatever registry the counters landed in.
func New(reg prometheus.Registerer) *Metrics {
	gatherer := prometheus.DefaultGatherer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	} else if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	messages := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "orderbot",
		Name:      "messages_total",
		Help:      "Total number of inbound messages processed.",
	})
	created := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "orderbot",
		Name:      "orders_created_total",
		Help:      "Total number of orders persisted.",
	})
	delivered := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orderbot",
		Name:      "deliveries_confirmed_total",
		Help:      "Total number of delivery confirmations by actor.",
	}, []string{"confirmed_by"})

	reg.MustRegister(messages, created, delivered)

	return &Metrics{
		MessagesTotal:       messages,
		OrdersCreated:       created,
		DeliveriesConfirmed: delivered,
		gatherer:            gatherer,
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
