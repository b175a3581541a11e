// Package payment talks to the payment processor's intent API.
package payment

import (
	"context"
	"errors"
)

var (
	ErrIntentNotFound = errors.New("payment intent not found")
	ErrInvalidAmount  = errors.New("payment amount must be positive")
)

type IntentItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type IntentRequest struct {
	CartID      int64        `json:"cart_id"`
	CustomerID  string       `json:"customer_id"`
	AmountMinor int64        `json:"amount"`
	Currency    string       `json:"currency"`
	Items       []IntentItem `json:"items"`
}

// Intent is an amount-bound authorization. ClientSecret is handed to the browser SDK.
type Intent struct {
	Ref          string `json:"id"`
	ClientSecret string `json:"client_secret"`
	AmountMinor  int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

type Gateway interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
	UpdateIntent(ctx context.Context, ref string, amountMinor int64) (*Intent, error)
}
