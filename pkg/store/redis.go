package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"peak/pkg/schema"
)

// Redis keeps each snapshot as one JSON string value.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis connects using a redis:// URL. prefix namespaces the keys so
// several deployments can share a database.
func NewRedis(ctx context.Context, url, prefix string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Redis{client: client, prefix: prefix}, nil
}

func (r *Redis) key(k string) string {
	return r.prefix + k
}

func (r *Redis) LoadHistory(ctx context.Context) ([]schema.Script, error) {
	var scripts []schema.Script
	ok, err := r.get(ctx, HistoryKey, &scripts)
	if err != nil || !ok {
		return nil, err
	}
	return scripts, nil
}

func (r *Redis) SaveHistory(ctx context.Context, scripts []schema.Script) error {
	if scripts == nil {
		scripts = []schema.Script{}
	}
	return r.set(ctx, HistoryKey, scripts)
}

func (r *Redis) LoadConfig(ctx context.Context) (schema.Config, bool, error) {
	var cfg schema.Config
	ok, err := r.get(ctx, ConfigKey, &cfg)
	if err != nil || !ok {
		return schema.Config{}, false, err
	}
	return cfg, true, nil
}

func (r *Redis) SaveConfig(ctx context.Context, cfg schema.Config) error {
	return r.set(ctx, ConfigKey, cfg)
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) get(ctx context.Context, key string, v any) (bool, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return true, nil
}

func (r *Redis) set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(key), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
