package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/travigo/paratransit/pkg/ctdf"
)

const IdempotencyHeader = "Idempotency-Key"

// A reservation outlives the slowest booking the backend timeout allows
const reservationExpiry = 10 * time.Minute

// BookingCache remembers the confirmed booking for a request's idempotency
// key, so a client retrying after a dropped response does not book twice.
// Requests sharing a key while one is still booking are turned away by a
// reservation on the key.
type BookingCache struct {
	Cache  *cache.Cache[string]
	Client *redis.Client
}

func NewBookingCache(client *redis.Client) *BookingCache {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(24*time.Hour))

	return &BookingCache{
		Cache:  cache.New[string](redisStore),
		Client: client,
	}
}

func bookingCacheKey(clientID string, key string) string {
	return fmt.Sprintf("paratransit:idempotency:%s:%s", clientID, key)
}

func reservationKey(clientID string, key string) string {
	return fmt.Sprintf("paratransit:idempotency-lock:%s:%s", clientID, key)
}

// Reserve claims the key for one in-flight booking. It returns false when
// another request already holds it. Without a key or a cache every request
// may book.
func (b *BookingCache) Reserve(ctx context.Context, clientID string, key string) bool {
	if b == nil || key == "" {
		return true
	}

	reserved, err := b.Client.SetNX(ctx, reservationKey(clientID, key), "booking", reservationExpiry).Result()
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to reserve idempotency key")
		return false
	}

	return reserved
}

func (b *BookingCache) Release(ctx context.Context, clientID string, key string) {
	if b == nil || key == "" {
		return
	}

	if err := b.Client.Del(ctx, reservationKey(clientID, key)).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to release idempotency key")
	}
}

func (b *BookingCache) Get(ctx context.Context, clientID string, key string) *ctdf.ConfirmedBooking {
	if b == nil || key == "" {
		return nil
	}

	cacheValue, err := b.Cache.Get(ctx, bookingCacheKey(clientID, key))
	if err != nil {
		return nil
	}

	var booking *ctdf.ConfirmedBooking
	if err := json.Unmarshal([]byte(cacheValue), &booking); err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to decode cached booking")
		return nil
	}

	return booking
}

func (b *BookingCache) Set(ctx context.Context, clientID string, key string, booking *ctdf.ConfirmedBooking) {
	if b == nil || key == "" {
		return
	}

	bookingJSON, _ := json.Marshal(booking)
	if err := b.Cache.Set(ctx, bookingCacheKey(clientID, key), string(bookingJSON)); err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to cache booking")
	}
}
