package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avoronkov/aeroreserve/config"
	"github.com/avoronkov/aeroreserve/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client    *redis.Client
	searchTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, searchTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		searchTTL: searchTTL,
	}
}

func (c *RedisCache) GetRouteSearch(ctx context.Context, source, destination string, date time.Time) ([]*domain.FlightInstance, error) {
	data, err := c.client.Get(ctx, routeKey(source, destination, date)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var instances []*domain.FlightInstance
	if err := json.Unmarshal(data, &instances); err != nil {
		return nil, err
	}
	return instances, nil
}

func (c *RedisCache) SetRouteSearch(ctx context.Context, source, destination string, date time.Time, instances []*domain.FlightInstance) error {
	payload, err := json.Marshal(instances)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, routeKey(source, destination, date), payload, c.searchTTL).Err()
}

// AcquireSeatHold takes an exclusive hold on a seat while an assignment is
// written, so concurrent callers cannot race past each other on the same
// seat.
func (c *RedisCache) AcquireSeatHold(ctx context.Context, instanceID int64, seatNumber string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, seatHoldKey(instanceID, seatNumber), "held", ttl).Result()
}

func (c *RedisCache) ReleaseSeatHold(ctx context.Context, instanceID int64, seatNumber string) error {
	return c.client.Del(ctx, seatHoldKey(instanceID, seatNumber)).Err()
}

func routeKey(source, destination string, date time.Time) string {
	return fmt.Sprintf("cache:search:%s:%s:%s", source, destination, date.Format("2006-01-02"))
}

func seatHoldKey(instanceID int64, seatNumber string) string {
	return fmt.Sprintf("hold:instance:%d:seat:%s", instanceID, seatNumber)
}
