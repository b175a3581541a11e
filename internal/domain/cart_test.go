package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cartWithIntent(items ...CartItem) *Cart {
	c := NewCart("user-1")
	c.Items = append(c.Items, items...)
	c.PaymentIntentRef = "pi_123"
	c.ClientSecret = "pi_123_secret"
	return c
}

func TestCartState(t *testing.T) {
	var absent *Cart
	assert.Equal(t, CartAbsent, absent.State())

	c := NewCart("user-1")
	assert.Equal(t, CartEmpty, c.State())

	c.AddItem(1, 1)
	assert.Equal(t, CartWithItems, c.State())
}

func TestAddItem_MergesQuantity(t *testing.T) {
	c := NewCart("user-1")

	assert.Equal(t, 2, c.AddItem(5, 2))
	assert.Equal(t, 5, c.AddItem(5, 3))
	assert.Equal(t, 1, c.AddItem(6, 1))

	require.Len(t, c.Items, 2)
	assert.Equal(t, 5, c.Quantity(5))
	assert.Equal(t, 6, c.ItemCount())
}

func TestAddItem_ZeroQuantityIsNoOp(t *testing.T) {
	c := cartWithIntent(CartItem{ProductID: 5, Quantity: 2})

	assert.Equal(t, 2, c.AddItem(5, 0))
	assert.Equal(t, 2, c.AddItem(5, 0))

	assert.Equal(t, 2, c.Quantity(5))
	assert.Equal(t, "pi_123", c.PaymentIntentRef, "a no-op add must keep the payment intent")
}

func TestAddSubtract_SumOfDeltasFlooredAtZero(t *testing.T) {
	tests := []struct {
		name   string
		deltas []int
		want   int
	}{
		{"add only", []int{3, 2}, 5},
		{"add then subtract", []int{3, -1}, 2},
		{"subtract past zero", []int{3, -5}, 0},
		{"floor then add", []int{1, -4, 2}, 2},
		{"subtract exact", []int{4, -4}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCart("user-1")
			got := 0
			for _, d := range tt.deltas {
				if d >= 0 {
					got = c.AddItem(7, d)
				} else {
					got = c.SubtractItem(7, -d)
				}
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, c.Quantity(7))
			if tt.want == 0 {
				for _, item := range c.Items {
					assert.NotEqual(t, int64(7), item.ProductID, "zero quantity line must be removed")
				}
			}
		})
	}
}

func TestSubtractItem_MissingProduct(t *testing.T) {
	c := NewCart("user-1")
	assert.Equal(t, 0, c.SubtractItem(9, 1))
	assert.Empty(t, c.Items)
}

func TestRemoveItem(t *testing.T) {
	c := NewCart("user-1")
	c.AddItem(1, 10)
	c.AddItem(2, 1)

	assert.True(t, c.RemoveItem(1))
	assert.False(t, c.RemoveItem(1))
	require.Len(t, c.Items, 1)
	assert.Equal(t, int64(2), c.Items[0].ProductID)
}

func TestEmpty_KeepsCartPresent(t *testing.T) {
	c := cartWithIntent(CartItem{ProductID: 1, Quantity: 1})
	c.ID = 42

	assert.True(t, c.Empty())
	assert.Equal(t, CartEmpty, c.State())
	assert.Equal(t, int64(42), c.ID)
	assert.NotNil(t, c.Items)
}

func TestCompositionChangesClearPaymentIntent(t *testing.T) {
	mutations := map[string]func(c *Cart){
		"add":      func(c *Cart) { c.AddItem(1, 1) },
		"add new":  func(c *Cart) { c.AddItem(99, 1) },
		"subtract": func(c *Cart) { c.SubtractItem(1, 1) },
		"remove":   func(c *Cart) { c.RemoveItem(1) },
		"empty":    func(c *Cart) { c.Empty() },
		"merge": func(c *Cart) {
			c.Merge(&Cart{Items: []CartItem{{ProductID: 3, Quantity: 1}}})
		},
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			c := cartWithIntent(CartItem{ProductID: 1, Quantity: 2})
			mutate(c)
			assert.Empty(t, c.PaymentIntentRef)
			assert.Empty(t, c.ClientSecret)
		})
	}
}

func TestMerge_SumsQuantities(t *testing.T) {
	user := NewCart("user-1")
	user.AddItem(1, 2)
	guest := NewCart("guest:abc")
	guest.AddItem(1, 3)
	guest.AddItem(2, 1)

	assert.True(t, user.Merge(guest))
	assert.Equal(t, 5, user.Quantity(1))
	assert.Equal(t, 1, user.Quantity(2))

	assert.False(t, user.Merge(nil))
	assert.False(t, user.Merge(NewCart("guest:empty")))
}

func TestCartStateString(t *testing.T) {
	assert.Equal(t, "ABSENT", CartAbsent.String())
	assert.Equal(t, "EMPTY", CartEmpty.String())
	assert.Equal(t, "WITH_ITEMS", CartWithItems.String())
}
