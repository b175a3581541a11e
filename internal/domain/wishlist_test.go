package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWishListToggle_RoundTrip(t *testing.T) {
	w := NewWishList("user-1")
	w.ProductIDs = []int64{1, 2}
	original := append([]int64(nil), w.ProductIDs...)

	assert.True(t, w.Toggle(3))
	assert.True(t, w.Contains(3))
	assert.False(t, w.Toggle(3))
	assert.ElementsMatch(t, original, w.ProductIDs)

	assert.False(t, w.Toggle(1))
	assert.True(t, w.Toggle(1))
	assert.ElementsMatch(t, original, w.ProductIDs)
}

func TestWishListEmpty(t *testing.T) {
	w := NewWishList("user-1")
	w.Toggle(1)
	assert.True(t, w.Empty())
	assert.Empty(t, w.ProductIDs)

	var none *WishList
	assert.False(t, none.Contains(1))
}

func TestSessionOwnerID(t *testing.T) {
	assert.Equal(t, "u1", Session{UserID: "u1", GuestID: "g1"}.OwnerID())
	assert.Equal(t, "guest:g1", Session{GuestID: "g1"}.OwnerID())
	assert.Equal(t, "", Session{}.OwnerID())
	assert.False(t, Session{GuestID: "g1"}.Authenticated())
}

func TestErrorsUnwrap(t *testing.T) {
	cause := errors.New("connection refused")

	var remote *RemoteCallError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", Remote("write cart", cause)), &remote))
	assert.ErrorIs(t, remote, cause)
	assert.Nil(t, Remote("noop", nil))

	pe := &OrderPersistenceError{PaymentRef: "pi_1", Err: cause}
	assert.ErrorIs(t, pe, cause)
	assert.Contains(t, pe.Error(), "pi_1")

	assert.ErrorIs(t, &PaymentIntentError{Err: cause}, cause)
	assert.Equal(t, "quantity: must be positive", NewValidationError("quantity", "must be positive").Error())
}

func TestOrderStatusTransitions(t *testing.T) {
	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusPaid))
	assert.False(t, OrderStatusPaid.CanTransitionTo(OrderStatusPending))
	assert.False(t, OrderStatusPaid.CanTransitionTo(OrderStatusPaid))
	assert.True(t, OrderStatusPaid.Valid())
	assert.False(t, OrderStatus("SHIPPED").Valid())
}
