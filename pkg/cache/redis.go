package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Jaysinh146/Riskify/pkg/config"
	"github.com/Jaysinh146/Riskify/pkg/logger"
	"github.com/Jaysinh146/Riskify/pkg/ml"
)

// Redis is a shared prediction cache for multi-instance deployments.
// Unlike the memory store it bounds entries by TTL rather than FIFO
// count: Redis owns eviction, the gateway only namespaces its keys.
type Redis struct {
	client *redis.Client
	cfg    config.RedisConfig
	log    *logger.Logger
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*Redis, error) {
	log = log.WithComponent("redis-cache")
	log.Info().Str("addr", cfg.Addr).Msg("connecting to Redis")

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping Redis: %w", err)
	}

	return &Redis{client: client, cfg: cfg, log: log}, nil
}

func (r *Redis) key(k string) string {
	return r.cfg.KeyPrefix + k
}

// Get returns the cached prediction for a key, if present. Transport
// errors are treated as misses: the cache is an optimization, never a
// reason to fail a prediction.
func (r *Redis) Get(ctx context.Context, key string) (ml.Prediction, bool) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn().Err(err).Msg("cache read failed")
		}
		return ml.Prediction{}, false
	}

	var p ml.Prediction
	if err := json.Unmarshal(data, &p); err != nil {
		r.log.Warn().Err(err).Msg("cached prediction unmarshal failed")
		return ml.Prediction{}, false
	}
	return p, true
}

// Set stores a prediction with the configured TTL. Failures are logged
// and swallowed for the same reason as in Get.
func (r *Redis) Set(ctx context.Context, key string, p ml.Prediction) {
	data, err := json.Marshal(p)
	if err != nil {
		r.log.Warn().Err(err).Msg("prediction marshal failed")
		return
	}
	if err := r.client.Set(ctx, r.key(key), data, r.cfg.TTL).Err(); err != nil {
		r.log.Warn().Err(err).Msg("cache write failed")
	}
}

// Len returns -1: counting prefixed keys requires a SCAN, which is too
// expensive for a status endpoint.
func (r *Redis) Len() int {
	return -1
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	r.log.Info().Msg("closing Redis connection")
	return r.client.Close()
}
