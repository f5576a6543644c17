package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionStatus(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{OrderPending, OrderProcessing, true},
		{OrderPending, OrderCancelled, true},
		{OrderPending, OrderShipped, false},
		{OrderPending, OrderDelivered, false},
		{OrderProcessing, OrderShipped, true},
		{OrderProcessing, OrderCancelled, true},
		{OrderProcessing, OrderDelivered, false},
		{OrderShipped, OrderDelivered, true},
		{OrderShipped, OrderCancelled, false},
		{OrderDelivered, OrderCancelled, false},
		{OrderDelivered, OrderPending, false},
		{OrderCancelled, OrderProcessing, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransitionStatus(tt.from, tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestAddressMissingFields(t *testing.T) {
	addr := Address{Name: "Asha Rao", Line1: "12 MG Road", City: "Bengaluru"}
	missing := addr.MissingFields()
	assert.ElementsMatch(t, []string{"phone", "state", "postal_code"}, missing)

	full := Address{
		Name: "Asha Rao", Phone: "9876543210", Line1: "12 MG Road",
		City: "Bengaluru", State: "KA", PostalCode: "560001",
	}
	assert.Empty(t, full.MissingFields())
}

func TestOrderItemCount(t *testing.T) {
	order := Order{Items: []OrderItem{{Quantity: 2}, {Quantity: 3}}}
	assert.Equal(t, 5, order.ItemCount())
}
