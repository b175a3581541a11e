package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated       = errors.New("authentication required")
	ErrProductNotFound       = errors.New("product not found")
	ErrEmptyCart             = errors.New("cart is empty")
	ErrNoPaymentConfirmation = errors.New("no successful payment confirmation supplied")
	ErrPaymentMismatch       = errors.New("payment does not belong to this cart")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// RemoteCallError marks a failed call to a backing store or collaborator.
type RemoteCallError struct {
	Op  string
	Err error
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}

func Remote(op string, err error) error {
	if err == nil {
		return nil
	}
	return &RemoteCallError{Op: op, Err: err}
}

// PaymentIntentError means no usable payment intent could be obtained. Nothing was charged.
type PaymentIntentError struct {
	Err error
}

func (e *PaymentIntentError) Error() string {
	return fmt.Sprintf("payment intent: %v", e.Err)
}

func (e *PaymentIntentError) Unwrap() error {
	return e.Err
}

// OrderPersistenceError means the payment was captured but the order could not be recorded.
type OrderPersistenceError struct {
	PaymentRef string
	Err        error
}

func (e *OrderPersistenceError) Error() string {
	return fmt.Sprintf("order for payment %s not recorded: %v", e.PaymentRef, e.Err)
}

func (e *OrderPersistenceError) Unwrap() error {
	return e.Err
}
