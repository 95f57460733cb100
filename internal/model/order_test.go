package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderPending, OrderPaid, true},
		{OrderPending, OrderRejected, true},
		{OrderPending, OrderCancelled, true},
		{OrderPending, OrderConfirmed, false},
		{OrderPaid, OrderConfirmed, true},
		{OrderPaid, OrderRejected, true},
		{OrderPaid, OrderCancelled, true},
		{OrderPaid, OrderPending, false},
		{OrderConfirmed, OrderCancelled, true},
		{OrderConfirmed, OrderRejected, false},
		{OrderRejected, OrderCancelled, false},
		{OrderCancelled, OrderPending, false},
		{OrderCancelled, OrderCancelled, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestOrderStatusHelpers(t *testing.T) {
	assert.True(t, ReleasesSeats(OrderCancelled))
	assert.True(t, ReleasesSeats(OrderRejected))
	assert.False(t, ReleasesSeats(OrderConfirmed))

	assert.True(t, Refundable(OrderPaid))
	assert.True(t, Refundable(OrderConfirmed))
	assert.False(t, Refundable(OrderPending))

	assert.True(t, OrderPaid.Valid())
	assert.False(t, OrderStatus("shipped").Valid())
}

func TestGeneratedLinkUsable(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	assert.True(t, (&GeneratedLink{MaxUses: 2, UsedCount: 1}).Usable(now))
	assert.True(t, (&GeneratedLink{MaxUses: 1, ExpiresAt: &future}).Usable(now))
	assert.False(t, (&GeneratedLink{MaxUses: 1, UsedCount: 1}).Usable(now))
	assert.False(t, (&GeneratedLink{MaxUses: 5, Revoked: true}).Usable(now))
	assert.False(t, (&GeneratedLink{MaxUses: 5, ExpiresAt: &past}).Usable(now))
	assert.False(t, (&GeneratedLink{MaxUses: 5, ExpiresAt: &now}).Usable(now))

	assert.Equal(t, 3, (&GeneratedLink{MaxUses: 5, UsedCount: 2}).Remaining())
	assert.Equal(t, 0, (&GeneratedLink{MaxUses: 1, UsedCount: 4}).Remaining())
}

func TestEventOnSale(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	assert.True(t, (&Event{Status: EventActive, StartsAt: now.Add(time.Hour)}).OnSale(now))
	assert.False(t, (&Event{Status: EventClosed, StartsAt: now.Add(time.Hour)}).OnSale(now))
	assert.False(t, (&Event{Status: EventActive, StartsAt: now.Add(-time.Hour)}).OnSale(now))
}
