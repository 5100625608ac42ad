package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisDocumentKey = "gatetracker:document"

// RedisRepository keeps the whole document under a single Redis key.
type RedisRepository struct {
	client *redis.Client
	key    string
}

// NewRedisRepository connects to Redis and verifies the connection.
func NewRedisRepository(redisURL string) (*RedisRepository, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisRepository{client: client, key: redisDocumentKey}, nil
}

// NewRedisRepositoryWithClient wraps an existing client.
func NewRedisRepositoryWithClient(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client, key: redisDocumentKey}
}

func (r *RedisRepository) Load(ctx context.Context) (*Document, error) {
	data, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		log.Printf("store: parse redis document: %v (starting fresh)", err)
		return NewDocument(), nil
	}
	return Normalize(&doc), nil
}

func (r *RedisRepository) Save(ctx context.Context, doc *Document) error {
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	if err := r.client.Set(ctx, r.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}
