package redis

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

func LoadClient(addr, password string, db int) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Cannot connect to Redis:", err)
	}
	return client
}
