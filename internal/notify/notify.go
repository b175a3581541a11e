// Package notify sends order receipts.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hortsatta/dot-games-sub000/internal/config"
	"github.com/hortsatta/dot-games-sub000/internal/domain"
	"gopkg.in/gomail.v2"
)

type Notifier interface {
	SendReceipt(ctx context.Context, event domain.OrderPaidEvent) error
}

// Mailer emails receipts over SMTP.
type Mailer struct {
	from string
	send func(m ...*gomail.Message) error
}

func NewMailer(cfg config.SMTP) *Mailer {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	return &Mailer{from: cfg.From, send: dialer.DialAndSend}
}

// New returns a Mailer when SMTP is configured and a LogNotifier otherwise.
func New(cfg config.SMTP) Notifier {
	if cfg.Host == "" {
		slog.Info("SMTP not configured, receipts will only be logged")
		return LogNotifier{}
	}
	return NewMailer(cfg)
}

func (m *Mailer) SendReceipt(ctx context.Context, event domain.OrderPaidEvent) error {
	if event.Email == "" {
		slog.InfoContext(ctx, "no address for receipt, skipping", "order_id", event.OrderID, "user_id", event.UserID)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", event.Email)
	msg.SetHeader("Subject", fmt.Sprintf("Your dot games order #%d", event.OrderID))
	msg.SetBody("text/plain", receiptBody(event))

	if err := m.send(msg); err != nil {
		return fmt.Errorf("send receipt for order %d: %w", event.OrderID, err)
	}

	slog.InfoContext(ctx, "receipt sent", "order_id", event.OrderID, "to", event.Email)
	return nil
}

type LogNotifier struct{}

func (LogNotifier) SendReceipt(ctx context.Context, event domain.OrderPaidEvent) error {
	slog.InfoContext(ctx, "order receipt",
		"order_id", event.OrderID,
		"user_id", event.UserID,
		"items", len(event.Items),
		"total", event.Totals.Total.String(),
		"currency", event.Currency)
	return nil
}

func receiptBody(event domain.OrderPaidEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Thanks for your order #%d.\n\n", event.OrderID)
	for _, item := range event.Items {
		fmt.Fprintf(&b, "%d x %s  %s %s\n", item.Quantity, item.Name, item.LineTotal.StringFixed(2), event.Currency)
	}
	fmt.Fprintf(&b, "\nSubtotal: %s %s\n", event.Totals.Subtotal.StringFixed(2), event.Currency)
	fmt.Fprintf(&b, "Shipping: %s %s\n", event.Totals.ShippingFee.StringFixed(2), event.Currency)
	fmt.Fprintf(&b, "Total:    %s %s\n", event.Totals.Total.StringFixed(2), event.Currency)
	fmt.Fprintf(&b, "\nPayment reference: %s\n", event.PaymentIntentRef)
	return b.String()
}
