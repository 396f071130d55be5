package lib

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

func GetRedisClient() *redis.Client {
	if redisClient != nil {
		return redisClient
	}
	redisHost := os.Getenv("REDIS_HOST")
	opt, err := redis.ParseURL(redisHost)
	if err != nil {
		log.Printf("[redis] Error parsing connection string: %s\n", err.Error())
		return nil
	}
	rdb := redis.NewClient(opt)
	redisClient = rdb
	return rdb
}

// NewRedisClient Replace redis instance with custom client implementation
func NewRedisClient(c *redis.Client) *redis.Client {
	redisClient = c
	return redisClient
}

var ErrVehicleLocked = errors.New("another reservation for this vehicle is in progress")

const vehicleLockTTL = 10 * time.Second

// AcquireVehicleLock takes a short advisory lock keyed on the vehicle so
// concurrent reservation attempts across instances serialize before the
// row-locked availability recount. The returned func releases the lock; the
// TTL bounds the hold time if a process dies mid-reservation.
func AcquireVehicleLock(vehicleID uint) (func(), error) {
	rdb := GetRedisClient()
	if rdb == nil {
		// No Redis in this environment: the database row lock still closes
		// the race within a single store.
		return func() {}, nil
	}
	key := fmt.Sprintf("vehicle_lock:%d", vehicleID)
	token := uuid.NewString()
	ok, err := rdb.SetNX(context.Background(), key, token, vehicleLockTTL).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrVehicleLocked
	}
	release := func() {
		val, err := rdb.Get(context.Background(), key).Result()
		if err != nil {
			return
		}
		if val == token {
			rdb.Del(context.Background(), key)
		}
	}
	return release, nil
}

// CacheAvailability stores a serialized availability response for the
// read-only display path.
func CacheAvailability(key string, payload string, ttl time.Duration) {
	rdb := GetRedisClient()
	if rdb == nil {
		return
	}
	if err := rdb.SetEx(context.Background(), key, payload, ttl).Err(); err != nil {
		log.Printf("Error caching value [%s]: %s\n", key, err.Error())
	}
}

func GetCachedAvailability(key string) (string, bool) {
	rdb := GetRedisClient()
	if rdb == nil {
		return "", false
	}
	val, err := rdb.Get(context.Background(), key).Result()
	if err == redis.Nil {
		return "", false
	} else if err != nil {
		log.Printf("Error retrieving value for %s: %s\n", key, err.Error())
		return "", false
	}
	return val, true
}
