package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/deusflow/mvnonews/internal/news"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string
	TTL      time.Duration // expiry of the whole set, refreshed on Record; 0 = none
}

// RedisHistory keeps reported links in a Redis set.
type RedisHistory struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedisHistory(ctx context.Context, cfg RedisConfig) (*RedisHistory, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return newRedisHistory(client, cfg), nil
}

func newRedisHistory(client *redis.Client, cfg RedisConfig) *RedisHistory {
	key := cfg.Key
	if key == "" {
		key = "mvno_news:links"
	}
	return &RedisHistory{client: client, key: key, ttl: cfg.TTL}
}

func (rh *RedisHistory) LoadSeenLinks(ctx context.Context) (map[string]struct{}, error) {
	members, err := rh.client.SMembers(ctx, rh.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load links from %s: %w", rh.key, err)
	}

	links := make(map[string]struct{}, len(members))
	for _, m := range members {
		links[m] = struct{}{}
	}
	return links, nil
}

func (rh *RedisHistory) Record(ctx context.Context, d news.Digest) error {
	links := d.Links()
	if len(links) == 0 {
		return nil
	}

	members := make([]interface{}, len(links))
	for i, l := range links {
		members[i] = l
	}

	pipe := rh.client.TxPipeline()
	pipe.SAdd(ctx, rh.key, members...)
	if rh.ttl > 0 {
		pipe.Expire(ctx, rh.key, rh.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record links: %w", err)
	}
	return nil
}

func (rh *RedisHistory) Close() error {
	return rh.client.Close()
}
