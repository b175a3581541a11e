package domain

import "time"

type CartState int

const (
	// CartAbsent means no cart row exists for the owner.
	CartAbsent CartState = iota
	// CartEmpty keeps the persisted row and id but holds no items.
	CartEmpty
	CartWithItems
)

func (s CartState) String() string {
	switch s {
	case CartEmpty:
		return "EMPTY"
	case CartWithItems:
		return "WITH_ITEMS"
	default:
		return "ABSENT"
	}
}

type Cart struct {
	ID               int64      `bson:"cart_id" json:"id,omitempty"`
	OwnerID          string     `bson:"user_id" json:"owner_id"`
	Items            []CartItem `bson:"items" json:"items"`
	PaymentIntentRef string     `bson:"payment_intent_ref" json:"payment_intent_ref,omitempty"`
	ClientSecret     string     `bson:"client_secret" json:"client_secret,omitempty"`
	CreatedAt        time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `bson:"updated_at" json:"updated_at"`
}

type CartItem struct {
	ProductID int64     `bson:"product_id" json:"product_id"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	AddedAt   time.Time `bson:"added_at" json:"added_at"`
}

func NewCart(ownerID string) *Cart {
	return &Cart{
		OwnerID: ownerID,
		Items:   []CartItem{},
	}
}

// State is safe to call on a nil cart, which reports CartAbsent.
func (c *Cart) State() CartState {
	if c == nil {
		return CartAbsent
	}
	if len(c.Items) == 0 {
		return CartEmpty
	}
	return CartWithItems
}

func (c *Cart) Quantity(productID int64) int {
	if c == nil {
		return 0
	}
	if i := c.indexOf(productID); i >= 0 {
		return c.Items[i].Quantity
	}
	return 0
}

func (c *Cart) ProductIDs() []int64 {
	ids := make([]int64, 0, len(c.Items))
	for _, item := range c.Items {
		ids = append(ids, item.ProductID)
	}
	return ids
}

func (c *Cart) ItemCount() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// AddItem merges quantity into the line for productID and returns the resulting quantity.
// Non-positive quantities leave the cart untouched.
func (c *Cart) AddItem(productID int64, quantity int) int {
	if quantity <= 0 {
		return c.Quantity(productID)
	}

	if i := c.indexOf(productID); i >= 0 {
		c.Items[i].Quantity += quantity
		c.ClearPaymentIntent()
		return c.Items[i].Quantity
	}

	c.Items = append(c.Items, CartItem{
		ProductID: productID,
		Quantity:  quantity,
		AddedAt:   time.Now(),
	})
	c.ClearPaymentIntent()
	return quantity
}

// SubtractItem decrements the line for productID, floored at zero. A line that reaches zero is removed.
func (c *Cart) SubtractItem(productID int64, quantity int) int {
	i := c.indexOf(productID)
	if i < 0 {
		return 0
	}
	if quantity <= 0 {
		return c.Items[i].Quantity
	}

	remaining := c.Items[i].Quantity - quantity
	c.ClearPaymentIntent()
	if remaining <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return 0
	}
	c.Items[i].Quantity = remaining
	return remaining
}

// RemoveItem drops the line regardless of quantity. It returns false when the product was not in the cart.
func (c *Cart) RemoveItem(productID int64) bool {
	i := c.indexOf(productID)
	if i < 0 {
		return false
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	c.ClearPaymentIntent()
	return true
}

// Empty clears items and the payment intent but keeps the cart itself.
func (c *Cart) Empty() bool {
	c.Items = []CartItem{}
	c.ClearPaymentIntent()
	return true
}

// Merge folds other's lines into c, summing quantities for products present in both.
func (c *Cart) Merge(other *Cart) bool {
	if other == nil {
		return false
	}
	changed := false
	for _, item := range other.Items {
		if item.Quantity <= 0 {
			continue
		}
		c.AddItem(item.ProductID, item.Quantity)
		changed = true
	}
	return changed
}

func (c *Cart) ClearPaymentIntent() {
	c.PaymentIntentRef = ""
	c.ClientSecret = ""
}

func (c *Cart) indexOf(productID int64) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
