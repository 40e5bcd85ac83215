package throttle

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "forexpulse:throttle:"

// RedisStore persists cooldown entries in Redis, sharing the cooldown cache
// across multiple bot instances.
type RedisStore struct {
	client  *redis.Client
	timeout time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	log.Printf("[INFO] redis throttle store connected: %s", addr)
	return &RedisStore{client: client, timeout: 5 * time.Second}, nil
}

func (r *RedisStore) Load() (map[Key]time.Time, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	out := make(map[Key]time.Time)
	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		redisKey := iter.Val()
		val, err := r.client.Get(ctx, redisKey).Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, fmt.Errorf("get %s: %w", redisKey, err)
		}
		unix, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			continue // unreadable entry, skip rather than fail the load
		}
		key, ok := parseRedisKey(redisKey)
		if !ok {
			continue
		}
		out[key] = time.Unix(unix, 0).UTC()
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan throttle keys: %w", err)
	}
	return out, nil
}

func (r *RedisStore) Save(key Key, sentAt time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	return r.client.Set(ctx, formatRedisKey(key), strconv.FormatInt(sentAt.Unix(), 10), 0).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

func formatRedisKey(key Key) string {
	return redisKeyPrefix + key.Pair + "|" + key.Direction
}

func parseRedisKey(s string) (Key, bool) {
	rest := strings.TrimPrefix(s, redisKeyPrefix)
	pair, direction, ok := strings.Cut(rest, "|")
	if !ok {
		return Key{}, false
	}
	return Key{Pair: pair, Direction: direction}, true
}
