package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server          ServerConfig
	Database        DatabaseConfig
	Redis           RedisConfig
	Kafka           KafkaConfig
	PaymentService  ServiceConfig
	ExchangeService ServiceConfig
	Pricing         PricingConfig
	Features        FeatureFlags
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

func (d DatabaseConfig) ConnectionString() string {
	return "host=" + d.Host +
		" port=" + strconv.Itoa(d.Port) +
		" user=" + d.User +
		" password=" + d.Password +
		" dbname=" + d.Name +
		" sslmode=" + d.SSLMode
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	OrderTTL time.Duration
	RateTTL  time.Duration
}

func (r RedisConfig) Addr() string {
	return r.Host + ":" + strconv.Itoa(r.Port)
}

type KafkaConfig struct {
	Brokers       []string
	OrdersTopic   string
	PaymentsTopic string
	ConsumerGroup string
}

type ServiceConfig struct {
	BaseURL string
	Timeout time.Duration
	APIKey  string
}

// PricingConfig carries the default merchant financial configuration,
// used when a restaurant has no stored settings of its own.
type PricingConfig struct {
	PlatformFeeUSD float64
	CurrencyCode   string
	CurrencySymbol string
	DefaultTaxName string
	DefaultTaxRate float64
}

type FeatureFlags struct {
	EnableOrderCaching bool
	EnableOrderEvents  bool
	EnableLiveRates    bool
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnvInt("SERVER_PORT", 8082),
			ReadTimeout:  time.Duration(getEnvInt("SERVER_READ_TIMEOUT", 30)) * time.Second,
			WriteTimeout: time.Duration(getEnvInt("SERVER_WRITE_TIMEOUT", 30)) * time.Second,
		},
		Database: DatabaseConfig{
			Host:         getEnvString("DB_HOST", "localhost"),
			Port:         getEnvInt("DB_PORT", 5432),
			User:         getEnvString("DB_USER", "platewise"),
			Password:     getEnvString("DB_PASSWORD", "platewise"),
			Name:         getEnvString("DB_NAME", "platewise_orders"),
			SSLMode:      getEnvString("DB_SSLMODE", "disable"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  time.Duration(getEnvInt("DB_CONN_MAX_LIFETIME", 300)) * time.Second,
		},
		Redis: RedisConfig{
			Host:     getEnvString("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnvString("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			OrderTTL: time.Duration(getEnvInt("REDIS_ORDER_TTL", 300)) * time.Second,
			RateTTL:  time.Duration(getEnvInt("REDIS_RATE_TTL", 3600)) * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:       strings.Split(getEnvString("KAFKA_BROKERS", "localhost:9092"), ","),
			OrdersTopic:   getEnvString("KAFKA_ORDERS_TOPIC", "orders"),
			PaymentsTopic: getEnvString("KAFKA_PAYMENTS_TOPIC", "payments"),
			ConsumerGroup: getEnvString("KAFKA_CONSUMER_GROUP", "orders-service"),
		},
		PaymentService: ServiceConfig{
			BaseURL: getEnvString("PAYMENT_SERVICE_URL", "http://localhost:8083"),
			Timeout: time.Duration(getEnvInt("PAYMENT_SERVICE_TIMEOUT", 30)) * time.Second,
			APIKey:  getEnvString("PAYMENT_SERVICE_API_KEY", ""),
		},
		ExchangeService: ServiceConfig{
			BaseURL: getEnvString("EXCHANGE_SERVICE_URL", "http://localhost:8084"),
			// Pricing must never block on a slow rate provider.
			Timeout: time.Duration(getEnvInt("EXCHANGE_SERVICE_TIMEOUT_MS", 1500)) * time.Millisecond,
			APIKey:  getEnvString("EXCHANGE_SERVICE_API_KEY", ""),
		},
		Pricing: PricingConfig{
			PlatformFeeUSD: getEnvFloat("PLATFORM_FEE_USD", 1.95),
			CurrencyCode:   getEnvString("DEFAULT_CURRENCY", "USD"),
			CurrencySymbol: getEnvString("DEFAULT_CURRENCY_SYMBOL", "$"),
			DefaultTaxName: getEnvString("DEFAULT_TAX_NAME", "Sales Tax"),
			DefaultTaxRate: getEnvFloat("DEFAULT_TAX_RATE", 0.0825),
		},
		Features: FeatureFlags{
			EnableOrderCaching: getEnvBool("ENABLE_ORDER_CACHING", true),
			EnableOrderEvents:  getEnvBool("ENABLE_ORDER_EVENTS", true),
			EnableLiveRates:    getEnvBool("ENABLE_LIVE_RATES", false),
		},
	}
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
