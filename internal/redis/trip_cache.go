package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"evroute/internal/model"

	"github.com/redis/go-redis/v9"
)

const TripKeyPrefix = "trip"

var ErrTripNotCached = errors.New("trip not cached")

func TripKey(id string) string {
	return TripKeyPrefix + ":" + id
}

// TripCache stores trips as JSON strings under trip:{id}, expiring after ttl (0 keeps them).
type TripCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewTripCache(client redis.Cmdable, ttl time.Duration) *TripCache {
	return &TripCache{client: client, ttl: ttl}
}

// SaveTrips writes the trips in one pipeline.
func (c *TripCache) SaveTrips(ctx context.Context, trips []*model.Trip) error {
	if len(trips) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	pipe := c.client.Pipeline()
	for _, trip := range trips {
		data, err := json.Marshal(trip)
		if err != nil {
			return fmt.Errorf("marshal trip %s: %w", trip.ID, err)
		}
		pipe.Set(ctx, TripKey(trip.ID), data, c.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save %d trips: %w", len(trips), err)
	}
	return nil
}

// GetTrip returns ErrTripNotCached when the key is missing or expired.
func (c *TripCache) GetTrip(ctx context.Context, id string) (*model.Trip, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	data, err := c.client.Get(ctx, TripKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrTripNotCached
	}
	if err != nil {
		return nil, fmt.Errorf("get trip %s: %w", id, err)
	}
	return decodeTrip(data)
}

// LoadAll scans every cached trip. Entries that fail to decode are skipped.
func (c *TripCache) LoadAll(ctx context.Context) (map[string]*model.Trip, error) {
	var (
		cursor uint64
		keys   []string
	)
	for {
		batch, next, err := c.client.Scan(ctx, cursor, TripKeyPrefix+":*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("scan trips: %w", err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	trips := make(map[string]*model.Trip, len(keys))
	if len(keys) == 0 {
		return trips, nil
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("mget trips: %w", err)
	}
	for i, v := range values {
		s, ok := v.(string)
		if !ok || s == "" {
			continue
		}
		trip, err := decodeTrip([]byte(s))
		if err != nil {
			continue
		}
		if trip.ID == "" {
			trip.ID = strings.TrimPrefix(keys[i], TripKeyPrefix+":")
		}
		trips[trip.ID] = trip
	}
	return trips, nil
}

func decodeTrip(data []byte) (*model.Trip, error) {
	trip := &model.Trip{}
	if err := json.Unmarshal(data, trip); err != nil {
		return nil, fmt.Errorf("decode trip: %w", err)
	}
	return trip, nil
}
