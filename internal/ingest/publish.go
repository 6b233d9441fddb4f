package ingest

import (
	"context"
	"encoding/json"
	"time"

	"card-api/internal/geo"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultHierarchyKey = "geo:hierarchy"
	DefaultVersionKey   = "geo:version"
)

// redisWriter：发布所需的最小 Redis 能力，*redis.Client 满足
type redisWriter interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// 文档注释：将产物发布到 Redis
// 背景：多实例部署时，服务可从 Redis 拉取最新产物而无需共享文件系统；版本号自增用于通知重新加载。
// 约束：产物不设过期；先写内容再递增版本，读取方看到新版本时内容已就绪。
type RedisPublisher struct {
	rc         redisWriter
	Key        string
	VersionKey string
}

func NewRedisPublisher(rc *redis.Client) *RedisPublisher {
	return &RedisPublisher{rc: rc, Key: DefaultHierarchyKey, VersionKey: DefaultVersionKey}
}

func (p *RedisPublisher) Publish(ctx context.Context, h geo.Hierarchy) error {
	if h == nil {
		h = geo.Hierarchy{}
	}
	b, err := json.Marshal(h)
	if err != nil {
		return err
	}
	if err := p.rc.Set(ctx, p.Key, string(b), 0).Err(); err != nil {
		return err
	}
	return p.rc.Incr(ctx, p.VersionKey).Err()
}
