package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/flightreserve/config"
	"github.com/Domenick1991/flightreserve/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client     *redis.Client
	flightsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightsTTL: flightsTTL,
	}
}

func (c *RedisCache) GetFlights(ctx context.Context) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, flightsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) SetFlights(ctx context.Context, flights []domain.Flight) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, flightsKey(), payload, c.flightsTTL).Err()
}

// AcquireSeatHold takes a short-lived exclusive hold on a seat so two
// passengers racing for the same explicit seat fail fast instead of both
// opening database transactions. The database remains the authority.
func (c *RedisCache) AcquireSeatHold(ctx context.Context, flightID int64, seatCode string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, seatHoldKey(flightID, seatCode), "held", ttl).Result()
}

func (c *RedisCache) ReleaseSeatHold(ctx context.Context, flightID int64, seatCode string) error {
	return c.client.Del(ctx, seatHoldKey(flightID, seatCode)).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func flightsKey() string {
	return "cache:flights"
}

func seatHoldKey(flightID int64, seatCode string) string {
	return fmt.Sprintf("hold:flight:%d:seat:%s", flightID, seatCode)
}
