package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.OrderCreated()
	m.OrderCreated()
	m.OrderTransition("paid")
	m.OrdersExpired(3)
	m.OrdersExpired(0)
	m.Notification("order_created", "sent", 0.2)
	m.Notification("order_created", "error", 1.5)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.ordersCreated))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.orderTransitions.WithLabelValues("paid")))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.ordersExpired))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.notifications.WithLabelValues("order_created", "error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.notifyDeliverTime))
}

func TestMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	assert.Error(t, err)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.OrderCreated()
		m.OrderTransition("confirmed")
		m.OrdersExpired(2)
		m.Notification("order_created", "sent", 0.1)
	})
}
