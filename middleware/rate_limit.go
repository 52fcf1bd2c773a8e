package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"tripplanner/config"
	"tripplanner/utils"
)

const redisTimeout = 2 * time.Second

// AuthRateLimiter throttles login and registration attempts per client IP.
// A nil storage keeps counters in memory.
func AuthRateLimiter(limit int, storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        limit,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "ratelimit:auth:" + c.IP() + ":" + c.Path()
		},
		LimitReached: func(c *fiber.Ctx) error {
			utils.LogEvent("rate_limit_hit", map[string]interface{}{
				"endpoint":   c.Path(),
				"ip":         c.IP(),
				"user_agent": c.Get(fiber.HeaderUserAgent),
			})
			return utils.ErrorResponse(c, fiber.StatusTooManyRequests, "RATE_LIMITED",
				"too many attempts, please wait before trying again", fiber.Map{"retry_after": "1 minute"})
		},
		Storage: storage,
	})
}

// RedisStorage implements fiber.Storage for Redis
type RedisStorage struct {
	client *redis.Client
}

func NewRedisStorage(cfg config.RedisConfig) *RedisStorage {
	return &RedisStorage{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

// Ping checks the connection so startup can fall back to memory storage
func (r *RedisStorage) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Get returns nil, nil for missing keys as fiber.Storage requires
func (r *RedisStorage) Get(key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

func (r *RedisStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	return r.client.Set(ctx, key, val, exp).Err()
}

func (r *RedisStorage) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	return r.client.Del(ctx, key).Err()
}

func (r *RedisStorage) Reset() error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	return r.client.FlushDB(ctx).Err()
}

func (r *RedisStorage) Close() error {
	return r.client.Close()
}
