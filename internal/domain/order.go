package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "PENDING"
	OrderStatusPaid    OrderStatus = "PAID"
)

func (s OrderStatus) Valid() bool {
	return s == OrderStatusPending || s == OrderStatusPaid
}

// CanTransitionTo allows only Pending -> Paid. Orders are otherwise immutable.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return s == OrderStatusPending && next == OrderStatusPaid
}

func (s OrderStatus) String() string {
	return string(s)
}

type Order struct {
	ID               int64              `json:"id"`
	UserID           string             `json:"user_id"`
	Email            string             `json:"email,omitempty"`
	Items            []CheckoutLineItem `json:"items"`
	Totals           OrderTotals        `json:"totals"`
	Currency         string             `json:"currency"`
	PaymentIntentRef string             `json:"payment_intent_ref"`
	ChargeID         string             `json:"charge_id,omitempty"`
	Status           OrderStatus        `json:"status"`
	CreatedAt        time.Time          `json:"created_at"`
}

const EventTypeOrderPaid = "order.paid"

// OrderPaidEvent is the outbox payload published once an order is recorded.
type OrderPaidEvent struct {
	EventID          string             `json:"event_id"`
	OrderID          int64              `json:"order_id"`
	UserID           string             `json:"user_id"`
	Email            string             `json:"email,omitempty"`
	PaymentIntentRef string             `json:"payment_intent_ref"`
	Items            []CheckoutLineItem `json:"items"`
	Totals           OrderTotals        `json:"totals"`
	Currency         string             `json:"currency"`
	PaidAt           time.Time          `json:"paid_at"`
}
