package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/go-redis/redis/v8"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"

	"text2phenotype.com/postag/logger"
)

type ReleaseLock func() error

var clientLogger = logger.NewLogger("Redis client")

type Config struct {
	Host                    string        `envconfig:"POS_REDIS_HOST" default:""`
	Port                    string        `envconfig:"POS_REDIS_PORT" default:"6379"`
	DB                      int           `envconfig:"POS_REDIS_DB" default:"0"`
	Password                string        `envconfig:"POS_REDIS_PASSWORD" default:""`
	CacheTTL                time.Duration `envconfig:"POS_REDIS_CACHE_TTL" default:"24h"`
	LockExpiration          time.Duration `envconfig:"POS_REDIS_LOCK_EXPIRATION" default:"60s"`
	LockRetries             int           `envconfig:"POS_REDIS_LOCK_RETRIES" default:"20"`
	HAMode                  bool          `envconfig:"POS_REDIS_HA_MODE" default:"false"`
	HASentinelPort          string        `envconfig:"POS_REDIS_HA_SENTINEL_PORT" default:"26379"`
	HASentinelMasterName    string        `envconfig:"POS_REDIS_HA_MASTER_NAME" default:"mymaster"`
	HASentinelSocketTimeout time.Duration `envconfig:"POS_REDIS_SOCKET_TIMEOUT" default:"500ms"`
}

// Enabled reports whether a Redis host is configured.
func (cfg Config) Enabled() bool {
	return cfg.Host != ""
}

func ReadEnvironment() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, errors.Wrap(err, "read redis environment")
	}
	return cfg, nil
}

// Client caches annotation results and guards output files with locks.
type Client struct {
	client redis.UniversalClient
	config Config
}

// NewClient connects and pings the server.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	var client redis.UniversalClient
	if cfg.HAMode {
		client = createFailoverClient(cfg)
	} else {
		client = createClient(cfg)
	}
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "ping redis at %s", cfg.Host)
	}
	clientLogger.Info().Str("host", cfg.Host).Int("db", cfg.DB).Msg("Connected to Redis")
	return newClient(client, cfg), nil
}

func newClient(client redis.UniversalClient, cfg Config) *Client {
	return &Client{client: client, config: cfg}
}

func createFailoverClient(cfg Config) *redis.ClusterClient {
	options := redis.FailoverOptions{
		SentinelAddrs: []string{fmt.Sprintf("%s:%s", cfg.Host, cfg.HASentinelPort)},
		ReadTimeout:   cfg.HASentinelSocketTimeout,
		WriteTimeout:  cfg.HASentinelSocketTimeout,
		MaxRetries:    6,
		DB:            cfg.DB,
		MasterName:    cfg.HASentinelMasterName,
		Password:      cfg.Password,
	}
	return redis.NewFailoverClusterClient(&options)
}

func createClient(cfg Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:       fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		MaxRetries: 6,
		DB:         cfg.DB,
		Password:   cfg.Password,
	})
}

// Get returns the value stored under key and whether it exists.
func (c *Client) Get(ctx context.Context, key string) ([]byte, bool, error) {
	buf, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "get %s", key)
	}
	return buf, true, nil
}

// Set stores value under key for the configured cache TTL.
func (c *Client) Set(ctx context.Context, key string, value []byte) error {
	if err := c.client.Set(ctx, key, value, c.config.CacheTTL).Err(); err != nil {
		return errors.Wrapf(err, "set %s", key)
	}
	return nil
}

// Lock obtains "lock:<key>", retrying with a linear backoff. The lock is
// refreshed every half expiration until it is released.
func (c *Client) Lock(ctx context.Context, key string) (ReleaseLock, error) {
	locker := redislock.New(c.client)
	strategy := redislock.LimitRetry(redislock.LinearBackoff(time.Second), c.config.LockRetries)
	ttl := c.config.LockExpiration
	lock, err := locker.Obtain(ctx, "lock:"+key, ttl, &redislock.Options{RetryStrategy: strategy})
	if err != nil {
		return nil, errors.Wrapf(err, "obtain lock on %s", key)
	}

	stop := keepAlive(key, ttl/2, func(ctx context.Context) error {
		return lock.Refresh(ctx, ttl, nil)
	})
	return func() error {
		stop()
		return lock.Release(context.Background())
	}, nil
}

// keepAlive calls refresh every interval until stop is called or a refresh
// fails. stop waits for the loop to exit.
func keepAlive(key string, interval time.Duration, refresh func(context.Context) error) (stop func()) {
	if interval <= 0 {
		return func() {}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := refresh(ctx); err != nil {
					if ctx.Err() == nil {
						clientLogger.Warn().Err(err).Str("key", key).Msg("Failed to refresh lock")
					}
					return
				}
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}
