package db

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/coachly/call-scheduler/internal/config"
)

// NewRedis abre a conexão usada pelo coordenador de claims.
// O servidor sobe mesmo sem Redis: o coordenador degrada para a
// verificação transacional no banco, que é a fonte de verdade.
func NewRedis(cfg *config.Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis unavailable (%v), claim lock will fall back to db-only", err)
		return nil
	}

	return client
}
