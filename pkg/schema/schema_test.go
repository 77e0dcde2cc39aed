package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderID(t *testing.T) {
	id, err := NewOrderID()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "ORD-"))

	id2, err := NewOrderID()
	require.NoError(t, err)
	assert.NotEqual(t, id, id2)
}

func TestNewSessionID(t *testing.T) {
	id, err := NewSessionID()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "SES-"))
	assert.Len(t, id, len("SES-")+12)
}

func TestOrderStatus_Next(t *testing.T) {
	assert.Equal(t, StatusPreparing, StatusConfirmed.Next())
	assert.Equal(t, StatusOutForDelivery, StatusPreparing.Next())
	assert.Equal(t, StatusDelivered, StatusOutForDelivery.Next())

	// Delivered is terminal.
	assert.Equal(t, StatusDelivered, StatusDelivered.Next())
}

func TestCart_Recompute(t *testing.T) {
	cart := &Cart{
		Items: []CartItem{
			{ItemID: "item_001", Price: 80, Quantity: 2},
			{ItemID: "item_002", Price: 120, Quantity: 1},
		},
	}

	cart.Recompute()
	assert.Equal(t, 280.0, cart.Total)
}

func TestEmptyCart(t *testing.T) {
	cart := EmptyCart()
	assert.NotNil(t, cart.Items)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total)
}
