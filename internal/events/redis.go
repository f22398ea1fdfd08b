package events

import (
	"context"
	"fmt"

	"bedflow/internal/config"

	"github.com/go-redis/redis/v8"
)

// RedisPublisher relays events over Redis pub/sub on "<channel>.<topic>"
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

// DialRedis connects to Redis and checks the connection
func DialRedis(ctx context.Context, cfg config.RedisConfig) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewRedisPublisher(client, cfg.Channel), nil
}

func (p *RedisPublisher) Channel(topic string) string {
	return p.channel + "." + topic
}

func (p *RedisPublisher) Publish(ctx context.Context, topic string, payload []byte) error {
	return p.client.Publish(ctx, p.Channel(topic), payload).Err()
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
