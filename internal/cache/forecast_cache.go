package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/andresuchdata/stockcast/internal/config"
	"github.com/redis/go-redis/v9"
)

const (
	forecastKeyPrefix     = "forecast"
	forecastScanBatchSize = 100
)

// ForecastKey identifies one model run: a hit is only possible when both the
// sales window and the model artifacts are unchanged.
type ForecastKey struct {
	Product      string
	ModelVersion string
	Window       []float64
}

// ForecastCache stores model output by ForecastKey.
type ForecastCache interface {
	Get(ctx context.Context, key ForecastKey) ([]float64, bool, error)
	Set(ctx context.Context, key ForecastKey, forecast []float64) error
	InvalidateAll(ctx context.Context) error
}

type redisForecastCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopForecastCache struct{}

func NewForecastCache(cfg config.CacheConfig) (ForecastCache, error) {
	if !cfg.Enabled {
		return &noopForecastCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisForecastCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopForecastCache() ForecastCache {
	return &noopForecastCache{}
}

func (c *redisForecastCache) Get(ctx context.Context, key ForecastKey) ([]float64, bool, error) {
	payload, err := c.client.Get(ctx, buildForecastKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var forecast []float64
	if err := json.Unmarshal(payload, &forecast); err != nil {
		return nil, false, fmt.Errorf("decode forecast cache: %w", err)
	}

	return forecast, true, nil
}

func (c *redisForecastCache) Set(ctx context.Context, key ForecastKey, forecast []float64) error {
	payload, err := json.Marshal(forecast)
	if err != nil {
		return fmt.Errorf("encode forecast cache: %w", err)
	}

	if err := c.client.Set(ctx, buildForecastKey(key), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisForecastCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, forecastKeyPrefix+":", forecastScanBatchSize)
}

func (n *noopForecastCache) Get(ctx context.Context, key ForecastKey) ([]float64, bool, error) {
	return nil, false, nil
}

func (n *noopForecastCache) Set(ctx context.Context, key ForecastKey, forecast []float64) error {
	return nil
}

func (n *noopForecastCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildForecastKey(key ForecastKey) string {
	return fmt.Sprintf("%s:%s:%s", forecastKeyPrefix, key.Product, runHash(key.ModelVersion, key.Window))
}

func runHash(modelVersion string, window []float64) string {
	parts := make([]string, len(window))
	for i, v := range window {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	sum := sha1.Sum([]byte(modelVersion + "|" + strings.Join(parts, ",")))
	return hex.EncodeToString(sum[:])
}
