package database

import (
	"context"
	"fmt"
	"log"
	"supervision-service/internal/app/config"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects the client that backs settings invalidation,
// session locks and the subject value cache.
func NewRedisClient(driverConfig *config.DriverConfig) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:       fmt.Sprintf("%s:%s", driverConfig.Redis.Host, driverConfig.Redis.Port),
		Password:   driverConfig.Redis.Password,
		DB:         driverConfig.Redis.DB,
		ClientName: driverConfig.Logger.ServiceName,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := rdb.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Could not connect to Redis: %v", err)
	}

	log.Printf("Successfully connected to redis db %d", driverConfig.Redis.DB)
	return rdb
}
