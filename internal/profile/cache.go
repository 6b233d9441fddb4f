package profile

import (
	"context"
	"encoding/json"
	"time"

	"card-api/internal/cache"
	"card-api/internal/logger"

	"github.com/redis/go-redis/v9"
)

// redisKV：缓存所需的最小 Redis 能力，*redis.Client 满足
type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// 文档注释：Redis 名片缓存
// 背景：多实例共享热点名片，降低上游调用量；键为 profile:<id>。
// 约束：读写失败仅记录日志并视为未命中，不影响主流程。
type RedisCache struct {
	rc     redisKV
	prefix string
}

func NewRedisCache(rc *redis.Client) *RedisCache {
	return &RedisCache{rc: rc, prefix: "profile:"}
}

func (c *RedisCache) Get(ctx context.Context, id string) (*Card, bool) {
	s, err := c.rc.Get(ctx, c.prefix+id).Result()
	if err != nil {
		if err != redis.Nil {
			logger.L().Error("profile_cache_get_error", "err", err)
		}
		return nil, false
	}
	var card Card
	if err := json.Unmarshal([]byte(s), &card); err != nil {
		return nil, false
	}
	return &card, true
}

func (c *RedisCache) Set(ctx context.Context, id string, card *Card, ttl time.Duration) {
	b, err := json.Marshal(card)
	if err != nil {
		return
	}
	if err := c.rc.Set(ctx, c.prefix+id, string(b), ttl).Err(); err != nil {
		logger.L().Error("profile_cache_set_error", "err", err)
	}
}

// MemoryCache：未配置 Redis 时的进程内兜底
type MemoryCache struct {
	lru *cache.LRU[*Card]
}

func NewMemoryCache(capacity int) *MemoryCache {
	return &MemoryCache{lru: cache.NewLRU[*Card](capacity)}
}

func (c *MemoryCache) Get(_ context.Context, id string) (*Card, bool) {
	return c.lru.Get(id)
}

func (c *MemoryCache) Set(_ context.Context, id string, card *Card, ttl time.Duration) {
	c.lru.Set(id, card, ttl)
}
