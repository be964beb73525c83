package store

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher pousse les notifications de mutation sur le pub/sub
// Redis. Un échec de publication n'invalide pas la mutation : les
// clients WebSocket rattraperont au prochain re-fetch.
type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(ctx context.Context, channel, payload string) {
	if err := p.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		log.Printf("⚠️ Échec publication %s: %v", channel, err)
	}
}
