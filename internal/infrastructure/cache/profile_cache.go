// Package cache keeps rendered profiles in Redis between mutations.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/chessup-server/internal/application"
	"github.com/oksasatya/chessup-server/pkg/helpers"
)

func keyProfile(userID string) string { return "user:profile:" + userID }

type ProfileCache struct {
	RDB redis.Cmdable
	TTL time.Duration
}

func NewProfileCache(rdb redis.Cmdable, ttl time.Duration) *ProfileCache {
	return &ProfileCache{RDB: rdb, TTL: ttl}
}

func (c *ProfileCache) Get(ctx context.Context, userID string) (map[string]any, bool, error) {
	var p map[string]any
	ok, err := helpers.RedisGetJSON(ctx, c.RDB, keyProfile(userID), &p)
	if err != nil || !ok {
		return nil, false, err
	}
	return p, true, nil
}

func (c *ProfileCache) Set(ctx context.Context, userID string, profile map[string]any) error {
	return helpers.RedisSetJSON(ctx, c.RDB, keyProfile(userID), profile, c.TTL)
}

func (c *ProfileCache) Invalidate(ctx context.Context, userID string) error {
	return helpers.RedisDel(ctx, c.RDB, keyProfile(userID))
}

var _ application.ProfileCache = (*ProfileCache)(nil)
