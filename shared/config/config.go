package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	envPrefix     = "ORDER"
	configFileEnv = "ORDER_CONFIG_FILE"
)

type OrderConfig struct {
	HTTPAddress   string        `mapstructure:"http_address"`
	HealthAddress string        `mapstructure:"health_address"`
	Storage       string        `mapstructure:"storage"`
	DBURI         string        `mapstructure:"db_uri"`
	TxRetries     int           `mapstructure:"tx_retries"`
	CreateTimeout time.Duration `mapstructure:"create_timeout"`
	NotifyTimeout time.Duration `mapstructure:"notify_timeout"`
	LogLevel      string        `mapstructure:"log_level"`
	LogFormat     string        `mapstructure:"log_format"`
	// StaticPrices is a comma separated SYMBOL=PRICE list used when no
	// instrument table is available.
	StaticPrices string `mapstructure:"static_prices"`

	DB             DBConfig             `mapstructure:"db"`
	Redis          RedisConfig          `mapstructure:"redis"`
	RateLimiter    RateLimiterConfig    `mapstructure:"rate_limiter"`
	Kafka          KafkaConfig          `mapstructure:"kafka"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"cb"`
	Telemetry      TelemetryConfig      `mapstructure:"telemetry"`
	Charges        ChargesConfig        `mapstructure:"charges"`
}

type DBConfig struct {
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

type RedisConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	Password          string        `mapstructure:"password"`
	DB                int           `mapstructure:"db"`
	ConnectionTimeout time.Duration `mapstructure:"connection_timeout"`
	PriceTTL          time.Duration `mapstructure:"price_ttl"`
}

func (r RedisConfig) Address() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type RateLimiterConfig struct {
	CreateOrder int           `mapstructure:"create_order"`
	Window      time.Duration `mapstructure:"window"`
	GlobalRPS   float64       `mapstructure:"global_rps"`
	GlobalBurst int           `mapstructure:"global_burst"`
}

type KafkaConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	Brokers  []string `mapstructure:"brokers"`
	Topic    string   `mapstructure:"topic"`
	ClientID string   `mapstructure:"client_id"`
}

type CircuitBreakerConfig struct {
	MaxRequests uint32        `mapstructure:"max_requests"`
	Interval    time.Duration `mapstructure:"interval"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxFailures uint32        `mapstructure:"max_failures"`
}

type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

type ChargesConfig struct {
	IntradaySTTBothLegs bool `mapstructure:"intraday_stt_both_legs"`
}

// Load reads an optional .env file, an optional config file named by
// ORDER_CONFIG_FILE and then ORDER_* environment variables, in increasing
// order of precedence.
func Load(envFiles ...string) (*OrderConfig, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("godotenv.Load: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := os.Getenv(configFileEnv); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("viper.ReadInConfig: %w", err)
		}
	}

	config := &OrderConfig{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("viper.Unmarshal: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Every key needs a default so that AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("http_address", ":8080")
	v.SetDefault("health_address", ":50051")
	v.SetDefault("storage", StoragePostgres)
	v.SetDefault("db_uri", "")
	v.SetDefault("tx_retries", 3)
	v.SetDefault("create_timeout", 5*time.Second)
	v.SetDefault("notify_timeout", 2*time.Second)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("static_prices", "")

	v.SetDefault("db.max_conns", 10)
	v.SetDefault("db.min_conns", 1)
	v.SetDefault("db.max_conn_lifetime", time.Hour)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.connection_timeout", 2*time.Second)
	v.SetDefault("redis.price_ttl", 30*time.Second)

	v.SetDefault("rate_limiter.create_order", 20)
	v.SetDefault("rate_limiter.window", time.Minute)
	v.SetDefault("rate_limiter.global_rps", 200.0)
	v.SetDefault("rate_limiter.global_burst", 400)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "order-events")
	v.SetDefault("kafka.client_id", "order-settlement")

	v.SetDefault("cb.max_requests", 3)
	v.SetDefault("cb.interval", 10*time.Second)
	v.SetDefault("cb.timeout", 5*time.Second)
	v.SetDefault("cb.max_failures", 5)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "localhost:4317")
	v.SetDefault("telemetry.service_name", "order-settlement")

	v.SetDefault("charges.intraday_stt_both_legs", false)
}

func (c *OrderConfig) Validate() error {
	switch c.Storage {
	case StoragePostgres:
		if c.DBURI == "" {
			return errors.New("ORDER_DB_URI is required for postgres storage")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage)
	}

	if c.TxRetries < 1 {
		return errors.New("ORDER_TX_RETRIES must be at least 1")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return errors.New("ORDER_KAFKA_BROKERS is required when kafka is enabled")
	}
	if _, err := c.ReferencePrices(); err != nil {
		return err
	}

	return nil
}

// ReferencePrices parses StaticPrices into a symbol keyed map.
func (c *OrderConfig) ReferencePrices() (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal)
	if strings.TrimSpace(c.StaticPrices) == "" {
		return prices, nil
	}

	for _, pair := range strings.Split(c.StaticPrices, ",") {
		symbol, raw, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			return nil, fmt.Errorf("ORDER_STATIC_PRICES: malformed entry %q", pair)
		}

		price, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil || !price.IsPositive() {
			return nil, fmt.Errorf("ORDER_STATIC_PRICES: invalid price for %s", symbol)
		}
		prices[strings.ToUpper(strings.TrimSpace(symbol))] = price
	}

	return prices, nil
}
