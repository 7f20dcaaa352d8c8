package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/facturator/backend/internal/domain/shared"
	"github.com/facturator/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Connect opens a Redis client when a host is configured and answers a ping.
// It returns a nil client when Redis is not configured, or when it does not
// answer and fallback is allowed. Callers then use in-memory stores.
func Connect(ctx context.Context, cfg config.RedisConfig, allowFallback bool, logger *zap.Logger) (*redis.Client, error) {
	if cfg.Host == "" {
		logger.Info("Redis not configured, using in-memory stores")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		if !allowFallback {
			return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr(), err)
		}
		logger.Warn("Redis unavailable, falling back to in-memory stores",
			zap.String("addr", cfg.Addr()),
			zap.Error(err),
		)
		return nil, nil
	}

	logger.Info("Connected to Redis", zap.String("addr", cfg.Addr()))
	return client, nil
}

// NewIdempotencyStore returns a Redis-backed store, or an in-memory one when client is nil
func NewIdempotencyStore(client *redis.Client) shared.IdempotencyStore {
	if client == nil {
		return NewInMemoryIdempotencyStore(0)
	}
	return NewRedisIdempotencyStore(client, "")
}
