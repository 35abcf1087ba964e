package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Postgres struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

type Config struct {
	HTTPPort        string
	PublicBaseURL   string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	LogLevel        string
	LogConsole      bool

	ProviderAddr             string
	ProviderTimeout          time.Duration
	ProviderBreakerFailures  uint32
	ProviderBreakerOpenDelay time.Duration

	// Fake provider process.
	ProviderGRPCPort string
	ProviderHTTPPort string
	ProviderPayBase  string
	// ProviderOutcome is "random" or a fixed outcome: paid, cancelled or failed.
	ProviderOutcome string

	CartBackend        string // sqlite, mongo or redis
	CartStorageName    string
	CartDBPath         string
	CartMigrationsPath string
	MongoURI           string
	MongoDBName        string
	RedisAddr          string
	RedisPassword      string

	CatalogDBPath         string
	CatalogMigrationsPath string

	OrdersBackend string // postgres or memory
	OrdersDB      Postgres

	KafkaBrokers []string
	OrdersTopic  string
}

// Load reads the configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	requestTimeout, err := getDuration("REQUEST_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := getDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	providerTimeout, err := getDuration("PAYMENT_PROVIDER_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	breakerOpen, err := getDuration("PAYMENT_BREAKER_OPEN_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	breakerFailures, err := strconv.ParseUint(getEnv("PAYMENT_BREAKER_FAILURES", "5"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid PAYMENT_BREAKER_FAILURES: %w", err)
	}
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	logConsole, err := strconv.ParseBool(getEnv("LOG_CONSOLE", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_CONSOLE: %w", err)
	}

	cfg := &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		PublicBaseURL:   strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		RequestTimeout:  requestTimeout,
		ShutdownTimeout: shutdownTimeout,
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogConsole:      logConsole,

		ProviderAddr:             getEnv("PAYMENT_PROVIDER_ADDR", "localhost:50057"),
		ProviderTimeout:          providerTimeout,
		ProviderBreakerFailures:  uint32(breakerFailures),
		ProviderBreakerOpenDelay: breakerOpen,

		ProviderGRPCPort: getEnv("PROVIDER_GRPC_PORT", "50057"),
		ProviderHTTPPort: getEnv("PROVIDER_HTTP_PORT", "8090"),
		ProviderPayBase:  strings.TrimRight(getEnv("PROVIDER_PAY_BASE_URL", "http://localhost:8090"), "/"),
		ProviderOutcome:  getEnv("PROVIDER_OUTCOME", "random"),

		CartBackend:        getEnv("CART_BACKEND", "sqlite"),
		CartStorageName:    getEnv("CART_STORAGE_NAME", "cart-storage"),
		CartDBPath:         getEnv("CART_DB_PATH", "./data/cart.db"),
		CartMigrationsPath: getEnv("CART_MIGRATIONS_PATH", "./internal/cart/repository/migrations"),
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:        getEnv("MONGO_DB_NAME", "storefront"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),

		CatalogDBPath:         getEnv("CATALOG_DB_PATH", "./data/catalog.db"),
		CatalogMigrationsPath: getEnv("CATALOG_MIGRATIONS_PATH", "./internal/catalog/migrations"),

		OrdersBackend: getEnv("ORDERS_BACKEND", "postgres"),
		OrdersDB: Postgres{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              dbPort,
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", "postgres"),
			DBName:            getEnv("DB_NAME", "storefront"),
			MigrationsDirPath: getEnv("MIGRATIONS_PATH", "./internal/orders/repository/migrations"),
		},

		KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "")),
		OrdersTopic:  getEnv("ORDERS_TOPIC", "order-events"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.CartBackend {
	case "sqlite", "mongo", "redis":
	default:
		return fmt.Errorf("invalid CART_BACKEND %q", c.CartBackend)
	}
	switch c.OrdersBackend {
	case "postgres", "memory":
	default:
		return fmt.Errorf("invalid ORDERS_BACKEND %q", c.OrdersBackend)
	}
	switch c.ProviderOutcome {
	case "random", "paid", "cancelled", "failed":
	default:
		return fmt.Errorf("invalid PROVIDER_OUTCOME %q", c.ProviderOutcome)
	}
	if c.ProviderBreakerFailures == 0 {
		return errors.New("PAYMENT_BREAKER_FAILURES must be positive")
	}
	if c.CartStorageName == "" {
		return errors.New("CART_STORAGE_NAME must not be empty")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
