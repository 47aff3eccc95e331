package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/studyquest/gamification/pkg/logger"
)

type Config struct {
	Addr      string        `mapstructure:"addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	KeyPrefix string        `mapstructure:"keyPrefix"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// DocumentCache stores read-side JSON documents in Redis. It is written
// only by the outbox relay.
type DocumentCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// New builds the client and checks the connection once. An unreachable
// Redis is only logged: the relay keeps outbox rows pending until it
// comes back, so grants and combat never wait on the cache.
func New(ctx context.Context, cfg Config) *DocumentCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Logger().Warn("Redis unreachable, documents will sync once it recovers",
			zap.String("addr", cfg.Addr), zap.Error(err))
	} else {
		logger.Logger().Info("Connected to redis successfully")
	}

	return NewWithClient(rdb, cfg.KeyPrefix, cfg.TTL)
}

func NewWithClient(rdb *redis.Client, prefix string, ttl time.Duration) *DocumentCache {
	return &DocumentCache{
		rdb:    rdb,
		prefix: strings.TrimSuffix(prefix, ":"),
		ttl:    ttl,
	}
}

func (c *DocumentCache) Key(documentKey string) string {
	if c.prefix == "" {
		return documentKey
	}
	return c.prefix + ":" + documentKey
}

// UpdateDocument overwrites the document. A zero TTL keeps it until the
// next update.
func (c *DocumentCache) UpdateDocument(ctx context.Context, key string, payload []byte) error {
	if err := c.rdb.Set(ctx, c.Key(key), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("update document %s: %w", key, err)
	}
	return nil
}

func (c *DocumentCache) Close() error {
	return c.rdb.Close()
}
