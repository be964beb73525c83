package currency

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ratesKey     = "currency:rates"
	timestampKey = "currency:rates_ts"
)

// RedisRateCache persiste la table de taux dans Redis, là où la version
// historique du site la gardait dans le localStorage du navigateur.
type RedisRateCache struct {
	rdb *redis.Client
}

func NewRedisRateCache(rdb *redis.Client) *RedisRateCache {
	return &RedisRateCache{rdb: rdb}
}

func (c *RedisRateCache) Load(ctx context.Context) (map[string]float64, time.Time, bool) {
	data, err := c.rdb.Get(ctx, ratesKey).Result()
	if err != nil || data == "" {
		return nil, time.Time{}, false
	}

	tsStr, err := c.rdb.Get(ctx, timestampKey).Result()
	if err != nil || tsStr == "" {
		return nil, time.Time{}, false
	}

	var rates map[string]float64
	if err := json.Unmarshal([]byte(data), &rates); err != nil {
		return nil, time.Time{}, false
	}

	ts, err := strconv.ParseInt(tsStr, 10, 64)
	if err != nil {
		return nil, time.Time{}, false
	}

	return rates, time.Unix(ts, 0), true
}

func (c *RedisRateCache) Save(ctx context.Context, rates map[string]float64, fetchedAt time.Time) error {
	data, err := json.Marshal(rates)
	if err != nil {
		return err
	}

	if err := c.rdb.Set(ctx, ratesKey, data, 0).Err(); err != nil {
		return err
	}
	return c.rdb.Set(ctx, timestampKey, strconv.FormatInt(fetchedAt.Unix(), 10), 0).Err()
}
