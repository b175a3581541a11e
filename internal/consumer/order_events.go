// Package consumer reacts to order events published from the outbox.
package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hortsatta/dot-games-sub000/internal/domain"
	"github.com/hortsatta/dot-games-sub000/internal/notify"
	"github.com/segmentio/kafka-go"
)

const (
	consumerGroup = "storefront-order-events"
	clearAttempts = 3
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// CartClearer empties a user's cart once its payment has been recorded.
type CartClearer interface {
	ClearPaidCart(ctx context.Context, userID, paymentRef string) (bool, error)
}

type OrderEventsConsumer struct {
	reader   MessageReader
	carts    CartClearer
	notifier notify.Notifier
	backoff  time.Duration
}

func NewOrderEventsConsumer(carts CartClearer, notifier notify.Notifier, topic string, brokers ...string) *OrderEventsConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  consumerGroup,
		MaxBytes: 10e6, // 10MB
	})
	return &OrderEventsConsumer{reader: reader, carts: carts, notifier: notifier, backoff: 500 * time.Millisecond}
}

func (c *OrderEventsConsumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.processMessage(ctx)
	}
}

func (c *OrderEventsConsumer) Close() {
	if err := c.reader.Close(); err != nil {
		slog.Error("error closing kafka reader", "error", err)
	}
}

func (c *OrderEventsConsumer) processMessage(ctx context.Context) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}
		slog.ErrorContext(ctx, "error reading message", "error", err)
		return
	}

	if eventType := headerValue(m, "event_type"); eventType != domain.EventTypeOrderPaid {
		slog.DebugContext(ctx, "skipping event", "event_type", eventType, "offset", m.Offset)
		return
	}

	var event domain.OrderPaidEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		slog.ErrorContext(ctx, "error parsing message", "offset", m.Offset, "error", err)
		return
	}

	if err := c.handleOrderPaid(ctx, event); err != nil {
		slog.ErrorContext(ctx, "failed to handle order paid event", "order_id", event.OrderID, "error", err)
	}
}

func (c *OrderEventsConsumer) handleOrderPaid(ctx context.Context, event domain.OrderPaidEvent) error {
	if event.UserID == "" || event.PaymentIntentRef == "" {
		return fmt.Errorf("event %s is missing user or payment reference", event.EventID)
	}

	cleared, err := c.clearWithRetry(ctx, event)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "order paid event handled",
		"order_id", event.OrderID,
		"user_id", event.UserID,
		"cart_cleared", cleared)

	// A failed receipt never blocks the cart cleanup above.
	if err := c.notifier.SendReceipt(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to send receipt", "order_id", event.OrderID, "error", err)
	}
	return nil
}

func (c *OrderEventsConsumer) clearWithRetry(ctx context.Context, event domain.OrderPaidEvent) (bool, error) {
	var err error
	for attempt := 1; attempt <= clearAttempts; attempt++ {
		var cleared bool
		cleared, err = c.carts.ClearPaidCart(ctx, event.UserID, event.PaymentIntentRef)
		if err == nil {
			return cleared, nil
		}
		slog.WarnContext(ctx, "clear paid cart failed", "attempt", attempt, "user_id", event.UserID, "error", err)

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(c.backoff * time.Duration(attempt)):
		}
	}
	return false, fmt.Errorf("clear cart for %s: %w", event.UserID, err)
}

func headerValue(m kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
