// README: Redis client initialization for driver presence (GEO + online set).
package infra

import (
	"github.com/redis/go-redis/v9"

	"boomerang/internal/config"
)

func NewRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
