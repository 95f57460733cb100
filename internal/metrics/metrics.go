// Package metrics holds the domain counters for the order lifecycle and the
// notification relay. HTTP request metrics live in the middleware package.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	ordersCreated     prometheus.Counter
	orderTransitions  *prometheus.CounterVec
	ordersExpired     prometheus.Counter
	notifications     *prometheus.CounterVec
	notifyDeliverTime prometheus.Histogram
}

// New registers the domain metrics on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ticket_orders_created_total",
			Help: "Total number of orders created.",
		}),
		orderTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ticket_order_transitions_total",
			Help: "Total number of order status transitions by target status.",
		}, []string{"to"}),
		ordersExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ticket_orders_expired_total",
			Help: "Total number of pending orders cancelled by the expiry sweeper.",
		}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ticket_notifications_total",
			Help: "Total number of admin notification delivery attempts by kind and result.",
		}, []string{"kind", "result"}),
		notifyDeliverTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ticket_notification_delivery_seconds",
			Help:    "Duration of a single admin notification delivery.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	for _, c := range []prometheus.Collector{
		m.ordersCreated,
		m.orderTransitions,
		m.ordersExpired,
		m.notifications,
		m.notifyDeliverTime,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) OrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
}

func (m *Metrics) OrderTransition(to string) {
	if m == nil {
		return
	}
	m.orderTransitions.WithLabelValues(to).Inc()
}

func (m *Metrics) OrdersExpired(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ordersExpired.Add(float64(n))
}

// Notification records one delivery attempt; result is "sent" or "error".
func (m *Metrics) Notification(kind, result string, seconds float64) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(kind, result).Inc()
	m.notifyDeliverTime.Observe(seconds)
}
