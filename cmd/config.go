package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	JWTSecret    string
	SSEKeepAlive time.Duration

	DeliveryFee decimal.Decimal
	PenaltyRate decimal.Decimal

	UnpaidOrderTTL   time.Duration
	UnpaidOrderSweep string
	ExpiryBatchSize  int

	RedisAddr    string
	RedisChannel string

	AMQPURL          string
	AMQPPaymentQueue string

	LogLevel string
}

// DSN renders the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// LoadConfig reads .env files when present, then the environment. envFiles default to ".env".
func LoadConfig(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "courierflow")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("SSE_KEEP_ALIVE", "15s")
	v.SetDefault("DELIVERY_FEE", "2.99")
	v.SetDefault("PENALTY_RATE", "0.10")
	v.SetDefault("UNPAID_ORDER_TTL", "30m")
	v.SetDefault("UNPAID_ORDER_SWEEP", "0 * * * * *")
	v.SetDefault("EXPIRY_BATCH_SIZE", 100)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_CHANNEL", "courierflow:notifications")
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("AMQP_PAYMENT_QUEUE", "payment_confirmations")
	v.SetDefault("LOG_LEVEL", "info")

	deliveryFee, feeErr := decimal.NewFromString(v.GetString("DELIVERY_FEE"))
	penaltyRate, rateErr := decimal.NewFromString(v.GetString("PENALTY_RATE"))

	cfg := Config{
		HTTPPort:         v.GetString("HTTP_PORT"),
		DBHost:           v.GetString("DB_HOST"),
		DBPort:           v.GetString("DB_PORT"),
		DBUser:           v.GetString("DB_USER"),
		DBPassword:       v.GetString("DB_PASSWORD"),
		DBName:           v.GetString("DB_NAME"),
		DBSslMode:        v.GetString("DB_SSLMODE"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		SSEKeepAlive:     v.GetDuration("SSE_KEEP_ALIVE"),
		DeliveryFee:      deliveryFee,
		PenaltyRate:      penaltyRate,
		UnpaidOrderTTL:   v.GetDuration("UNPAID_ORDER_TTL"),
		UnpaidOrderSweep: v.GetString("UNPAID_ORDER_SWEEP"),
		ExpiryBatchSize:  v.GetInt("EXPIRY_BATCH_SIZE"),
		RedisAddr:        v.GetString("REDIS_ADDR"),
		RedisChannel:     v.GetString("REDIS_CHANNEL"),
		AMQPURL:          v.GetString("AMQP_URL"),
		AMQPPaymentQueue: v.GetString("AMQP_PAYMENT_QUEUE"),
		LogLevel:         v.GetString("LOG_LEVEL"),
	}

	var problems []error
	if feeErr != nil {
		problems = append(problems, fmt.Errorf("DELIVERY_FEE: %w", feeErr))
	}
	if rateErr != nil {
		problems = append(problems, fmt.Errorf("PENALTY_RATE: %w", rateErr))
	}
	if cfg.JWTSecret == "" {
		problems = append(problems, errors.New("JWT_SECRET is required"))
	}
	if cfg.UnpaidOrderTTL <= 0 {
		problems = append(problems, fmt.Errorf("UNPAID_ORDER_TTL must be positive, got %s", cfg.UnpaidOrderTTL))
	}
	if err := errors.Join(problems...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
