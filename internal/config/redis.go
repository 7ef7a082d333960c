package config

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/redis/go-redis/v9"
)

// RedisConfig locates the Redis server used for rate limiting.  REDIS_HOST
// and REDIS_PORT together take precedence over REDIS_ADDR.
type RedisConfig struct {
	Host     string `env:"REDIS_HOST"`
	Port     string `env:"REDIS_PORT"`
	Addr     string `env:"REDIS_ADDR,default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,default=0"`
	TLS      bool   `env:"REDIS_TLS,default=false"`
}

func (c RedisConfig) address() string {
	if c.Host != "" && c.Port != "" {
		return c.Host + ":" + c.Port
	}
	return c.Addr
}

// NewRedisClient connects to Redis and pings it.  It returns nil when the
// server cannot be reached; callers then run without rate limiting.
func NewRedisClient(log *slog.Logger) *redis.Client {
	var cfg RedisConfig
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		log.Warn("redis disabled", "err", fmt.Errorf("redis config: %w", err))
		return nil
	}
	var tlsConf *tls.Config
	if cfg.TLS {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      cfg.address(),
		Password:  cfg.Password,
		DB:        cfg.DB,
		TLSConfig: tlsConf,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis unreachable, rate limiting disabled", "addr", cfg.address(), "err", err)
		_ = client.Close()
		return nil
	}
	return client
}
