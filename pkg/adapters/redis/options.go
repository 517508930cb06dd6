package redis

import (
	"log/slog"
	"time"

	"github.com/aretw0/gamestate/internal/logging"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix is the key and channel prefix used without WithPrefix.
const DefaultPrefix = "gamestate:"

type config struct {
	prefix string
	logger *slog.Logger
	ttl    time.Duration
}

// Option configures the Redis adapters.
type Option func(*config)

// WithPrefix sets the key and channel prefix.
func WithPrefix(prefix string) Option {
	return func(c *config) {
		c.prefix = prefix
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithTTL sets the expiration of mirrored state keys.
func WithTTL(ttl time.Duration) Option {
	return func(c *config) {
		c.ttl = ttl
	}
}

func newConfig(opts []Option) config {
	c := config{prefix: DefaultPrefix, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// NewClient creates a client for address.
func NewClient(address, password string, db int) *backend.Client {
	return backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
}

func (c config) eventsPattern() string {
	return c.prefix + "events:*"
}

func (c config) eventsPrefix() string {
	return c.prefix + "events:"
}

func (c config) stateKey(root string) string {
	return c.prefix + "state:" + root
}
