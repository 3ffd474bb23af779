package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo MongoConfig
	Redis RedisConfig
	Cart  CartConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=storefront"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// CartConfig tunes the cart reconciliation layer. The two delays are the
// named retry waits: one before re-trying a fetch whose credential was
// rejected, one before the single re-fetch of a freshly loaded empty cart.
type CartConfig struct {
	UpstreamURL       string        `env:"UPSTREAM_CART_URL,        default=http://localhost:9090/api/cart"`
	AuthRetryDelay    time.Duration `env:"CART_AUTH_RETRY_DELAY,    default=300ms"`
	EmptyRefetchDelay time.Duration `env:"CART_EMPTY_REFETCH_DELAY, default=500ms"`
	GuestTTL          time.Duration `env:"CART_GUEST_TTL,           default=720h"`
	SessionMaxIdle    time.Duration `env:"CART_SESSION_MAX_IDLE,    default=1h"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
