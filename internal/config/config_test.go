package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "USD", cfg.Currency)
	assert.True(t, cfg.ShippingFee.Equal(decimal.Zero))
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, time.Hour, cfg.CheckoutSnapshotTTL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SHIPPING_FEE", "4.99")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("GUEST_CART_TTL", "2h")
	t.Setenv("CURRENCY", "eur")

	cfg := Load()

	assert.True(t, cfg.ShippingFee.Equal(decimal.RequireFromString("4.99")))
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.Equal(t, 2*time.Hour, cfg.GuestCartTTL)
	assert.Equal(t, "EUR", cfg.Currency)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SHIPPING_FEE", "-1")
	t.Setenv("DB_PORT", "abc")
	t.Setenv("REQUEST_TIMEOUT", "soon")

	cfg := Load()

	assert.True(t, cfg.ShippingFee.IsZero())
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}
