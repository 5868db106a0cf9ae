package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemsFromCart(t *testing.T) {
	items, err := ItemsFromCart([]CartRow{
		{ItemID: "p1", ItemName: "Jersey", ItemPrice: "20.00", Quantity: 2},
		{ItemID: "p2", ItemName: "Ball", ItemPrice: "35.5", Quantity: 0},
	})
	require.NoError(t, err)
	assert.Equal(t, []OrderItem{
		{ProductID: "p1", Name: "Jersey", PriceCents: 2000, Quantity: 2},
		{ProductID: "p2", Name: "Ball", PriceCents: 3550, Quantity: 1},
	}, items)

	_, err = ItemsFromCart([]CartRow{{ItemID: "p3", ItemPrice: "free"}})
	assert.Error(t, err)
}

func TestNewOrderTotal(t *testing.T) {
	o := NewOrder("o1", "u1", "cs_1", []OrderItem{
		{ProductID: "p1", PriceCents: 2000, Quantity: 2},
		{ProductID: "p2", PriceCents: 3550, Quantity: 1},
	})
	assert.Equal(t, int64(7550), o.TotalCents)
	assert.Equal(t, StatusPaid, o.Status)
	assert.Equal(t, "cs_1", o.SessionID)
	assert.False(t, o.CreatedAt.IsZero())
}
