package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/platewise/platewise-orders-service/internal/config"
	"github.com/platewise/platewise-orders-service/internal/logging"
	"github.com/platewise/platewise-orders-service/internal/metrics"
	"github.com/platewise/platewise-orders-service/internal/models"
)

const (
	orderKeyPrefix  = "order:"
	ratesKey        = "exchange_rates"
	defaultOrderTTL = 5 * time.Minute
	defaultRateTTL  = time.Hour
)

// NewRedisClient builds the shared Redis client from config.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// RedisOrderCache implements OrderCache using Redis.
type RedisOrderCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logging.LoggerV2
}

var _ OrderCache = (*RedisOrderCache)(nil)

// NewRedisOrderCache creates a new Redis-based order cache.
func NewRedisOrderCache(client *redis.Client, ttl time.Duration) *RedisOrderCache {
	if ttl == 0 {
		ttl = defaultOrderTTL
	}

	return &RedisOrderCache{
		client: client,
		ttl:    ttl,
		logger: logging.NewLoggerV2("order-cache"),
	}
}

// Get retrieves an order from cache. A miss returns (nil, nil).
func (c *RedisOrderCache) Get(ctx context.Context, id string) (*models.Order, error) {
	key := orderKeyPrefix + id

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		metrics.CacheMisses.WithLabelValues("order").Inc()
		c.logger.Debug("Cache miss", logging.Fields{"order_id": id})
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Cache get error", logging.Fields{
			"order_id": id,
			"error":    err.Error(),
		})
		return nil, err
	}

	var order models.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, err
	}

	metrics.CacheHits.WithLabelValues("order").Inc()
	c.logger.Debug("Cache hit", logging.Fields{"order_id": id})
	return &order, nil
}

// Set stores an order in cache.
func (c *RedisOrderCache) Set(ctx context.Context, order *models.Order) error {
	key := orderKeyPrefix + order.ID

	data, err := json.Marshal(order)
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Error("Cache set error", logging.Fields{
			"order_id": order.ID,
			"error":    err.Error(),
		})
		return err
	}

	c.logger.Debug("Order cached", logging.Fields{
		"order_id": order.ID,
		"ttl":      c.ttl.String(),
	})
	return nil
}

// Delete removes an order from cache.
func (c *RedisOrderCache) Delete(ctx context.Context, id string) error {
	key := orderKeyPrefix + id

	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Error("Cache delete error", logging.Fields{
			"order_id": id,
			"error":    err.Error(),
		})
		return err
	}

	c.logger.Debug("Order deleted from cache", logging.Fields{"order_id": id})
	return nil
}

// RedisRateCache implements RateCache using Redis. Exchange rate tables are
// small, so the whole map is stored under a single key.
type RedisRateCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logging.LoggerV2
}

var _ RateCache = (*RedisRateCache)(nil)

// NewRedisRateCache creates a new Redis-based exchange rate cache.
func NewRedisRateCache(client *redis.Client, ttl time.Duration) *RedisRateCache {
	if ttl == 0 {
		ttl = defaultRateTTL
	}

	return &RedisRateCache{
		client: client,
		ttl:    ttl,
		logger: logging.NewLoggerV2("rate-cache"),
	}
}

// GetRates retrieves the cached rate table. A miss returns (nil, nil).
func (c *RedisRateCache) GetRates(ctx context.Context) (map[string]float64, error) {
	data, err := c.client.Get(ctx, ratesKey).Bytes()
	if err == redis.Nil {
		metrics.CacheMisses.WithLabelValues("rates").Inc()
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Rate cache get error", logging.Fields{"error": err.Error()})
		return nil, err
	}

	var rates map[string]float64
	if err := json.Unmarshal(data, &rates); err != nil {
		return nil, err
	}

	metrics.CacheHits.WithLabelValues("rates").Inc()
	return rates, nil
}

// SetRates stores the rate table.
func (c *RedisRateCache) SetRates(ctx context.Context, rates map[string]float64) error {
	data, err := json.Marshal(rates)
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, ratesKey, data, c.ttl).Err(); err != nil {
		c.logger.Error("Rate cache set error", logging.Fields{"error": err.Error()})
		return err
	}

	c.logger.Debug("Rates cached", logging.Fields{
		"currencies": len(rates),
		"ttl":        c.ttl.String(),
	})
	return nil
}
