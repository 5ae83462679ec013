package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItemMergesDuplicateProduct(t *testing.T) {
	cart := NewCart(1)
	cart.AddItem(10, "keyboard", "kb.jpg", decimal.NewFromInt(100), 2)
	cart.AddItem(10, "keyboard", "kb.jpg", decimal.NewFromInt(100), 3)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.True(t, cart.Items[0].LineTotal.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, 5, cart.TotalItems)
	assert.True(t, cart.TotalAmount.Equal(decimal.NewFromInt(500)))
}

func TestAddItemKeepsFirstPriceSnapshot(t *testing.T) {
	cart := NewCart(1)
	cart.AddItem(10, "keyboard", "kb.jpg", decimal.NewFromInt(100), 1)
	// 商品调价后再次加入，单价仍为首次快照
	cart.AddItem(10, "keyboard", "kb.jpg", decimal.NewFromInt(150), 1)

	require.Len(t, cart.Items, 1)
	assert.True(t, cart.Items[0].UnitPrice.Equal(decimal.NewFromInt(100)))
	assert.True(t, cart.TotalAmount.Equal(decimal.NewFromInt(200)))
}

func TestTotalsRecomputedFromItems(t *testing.T) {
	cart := NewCart(1)
	cart.AddItem(10, "keyboard", "", decimal.NewFromFloat(99.50), 2)
	cart.AddItem(20, "mouse", "", decimal.NewFromFloat(25.25), 1)

	assert.Equal(t, 3, cart.TotalItems)
	assert.True(t, cart.TotalAmount.Equal(decimal.NewFromFloat(224.25)))

	ok := cart.UpdateQuantity(10, 1)
	require.True(t, ok)
	assert.Equal(t, 2, cart.TotalItems)
	assert.True(t, cart.TotalAmount.Equal(decimal.NewFromFloat(124.75)))
}

func TestUpdateQuantityMissingItem(t *testing.T) {
	cart := NewCart(1)
	cart.AddItem(10, "keyboard", "", decimal.NewFromInt(100), 1)

	assert.False(t, cart.UpdateQuantity(99, 2))
	assert.Equal(t, 1, cart.TotalItems)
}

func TestRemoveItemIsNoOpWhenAbsent(t *testing.T) {
	cart := NewCart(1)
	cart.AddItem(10, "keyboard", "", decimal.NewFromInt(100), 1)

	cart.RemoveItem(99)
	assert.Len(t, cart.Items, 1)

	cart.RemoveItem(10)
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, 0, cart.TotalItems)
	assert.True(t, cart.TotalAmount.IsZero())
}

func TestClear(t *testing.T) {
	cart := NewCart(1)
	cart.AddItem(10, "keyboard", "", decimal.NewFromInt(100), 2)
	cart.AddItem(20, "mouse", "", decimal.NewFromInt(50), 1)

	cart.Clear()
	assert.True(t, cart.IsEmpty())
	assert.True(t, cart.TotalAmount.IsZero())
	assert.Equal(t, 0, cart.TotalItems)
}
