package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	AppEnv   string
	LogLevel string

	HTTPPort           string
	GRPCPort           string
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64

	MongoURI    string
	MongoDBName string

	RedisAddr     string
	RedisPassword string

	DB Postgres

	CatalogDBPath         string
	CatalogMigrationsPath string

	KafkaBrokers     []string
	OrderEventsTopic string

	PaymentAPIURL string
	PaymentAPIKey string

	Currency    string
	ShippingFee decimal.Decimal

	SMTP SMTP

	GuestCartTTL        time.Duration
	CheckoutSnapshotTTL time.Duration
}

type Postgres struct {
	Host           string
	Port           int
	User           string
	Password       string
	Name           string
	MigrationsPath string
}

type SMTP struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func Load() *Config {
	return &Config{
		AppEnv:             getEnv("APP_ENV", "dev"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		GRPCPort:           getEnv("GRPC_PORT", "50060"),
		RequestTimeout:     getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout:    getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		MaxRequestBodySize: 1 << 20, // 1MB

		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName: getEnv("MONGO_DB_NAME", "storefront"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		DB: Postgres{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnvInt("DB_PORT", 5432),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			Name:           getEnv("DB_NAME", "storefront"),
			MigrationsPath: getEnv("ORDERS_MIGRATIONS_PATH", "./internal/orders/migrations"),
		},

		CatalogDBPath:         getEnv("CATALOG_DB_PATH", "./catalog.db"),
		CatalogMigrationsPath: getEnv("CATALOG_MIGRATIONS_PATH", "./internal/catalog/migrations"),

		KafkaBrokers:     splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
		OrderEventsTopic: getEnv("ORDER_EVENTS_TOPIC", "order-events"),

		PaymentAPIURL: getEnv("PAYMENT_API_URL", ""),
		PaymentAPIKey: getEnv("PAYMENT_API_KEY", ""),

		Currency:    strings.ToUpper(getEnv("CURRENCY", "USD")),
		ShippingFee: getEnvDecimal("SHIPPING_FEE", decimal.Zero),

		SMTP: SMTP{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvInt("SMTP_PORT", 587),
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "noreply@dot-games.local"),
		},

		GuestCartTTL:        getEnvDuration("GUEST_CART_TTL", 7*24*time.Hour),
		CheckoutSnapshotTTL: getEnvDuration("CHECKOUT_SNAPSHOT_TTL", time.Hour),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// getEnvDecimal falls back to def for unparsable or negative values.
func getEnvDecimal(key string, def decimal.Decimal) decimal.Decimal {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		return def
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
