// 包 theme：访客主题偏好（深色/浅色）的持久化与切换
package theme

import (
	"context"
	"errors"
	"strings"
	"sync"

	"card-api/internal/logger"
	"card-api/internal/metrics"

	"github.com/redis/go-redis/v9"
)

type Theme string

const (
	Dark  Theme = "dark"
	Light Theme = "light"

	Default = Dark

	keyPrefix = "woven-africa-theme:"
)

// Valid：仅 dark / light 为合法值
func (t Theme) Valid() bool { return t == Dark || t == Light }

// Flip：返回相反主题；非法值按默认值翻转
func (t Theme) Flip() Theme {
	if t == Light {
		return Dark
	}
	return Light
}

// ErrMissing：KV 中无此键，由 KV 实现返回
var ErrMissing = errors.New("theme: key missing")

// KV：主题存储后端，Get 在键不存在时返回 ErrMissing
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// 文档注释：主题偏好存储
// 背景：主题偏好是跨请求共享的状态，存储后端由构造时显式注入，逻辑中不直接访问任何全局存储。
// 约束：Toggle 是唯一的写入入口；读取缺失或非法值时回落为默认主题（深色），不报错。
type Store struct {
	kv KV
	mu sync.Mutex
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

func key(visitor string) string {
	return keyPrefix + strings.TrimSpace(visitor)
}

func (s *Store) Get(ctx context.Context, visitor string) (Theme, error) {
	v, err := s.kv.Get(ctx, key(visitor))
	if errors.Is(err, ErrMissing) {
		return Default, nil
	}
	if err != nil {
		return Default, err
	}
	t := Theme(strings.ToLower(strings.TrimSpace(v)))
	if !t.Valid() {
		logger.L().Debug("theme_invalid_value", "visitor", visitor, "value", v)
		return Default, nil
	}
	return t, nil
}

// Toggle：翻转并持久化访客主题，返回新主题
func (s *Store) Toggle(ctx context.Context, visitor string) (Theme, error) {
	// 同进程内串行化读改写，避免并发切换相互覆盖
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, err := s.Get(ctx, visitor)
	if err != nil {
		return cur, err
	}
	next := cur.Flip()
	if err := s.kv.Set(ctx, key(visitor), string(next)); err != nil {
		return cur, err
	}
	metrics.ThemeTogglesTotal.WithLabelValues(string(next)).Inc()
	return next, nil
}

// RedisKV：以 Redis 为后端，偏好不过期
type RedisKV struct {
	rc *redis.Client
}

func NewRedisKV(rc *redis.Client) *RedisKV { return &RedisKV{rc: rc} }

func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	s, err := r.rc.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrMissing
	}
	return s, err
}

func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	return r.rc.Set(ctx, key, value, 0).Err()
}

// MemoryKV：进程内后端，未配置 Redis 或测试时使用
type MemoryKV struct {
	mu sync.RWMutex
	m  map[string]string
}

func NewMemoryKV() *MemoryKV { return &MemoryKV{m: make(map[string]string)} }

func (m *MemoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.m[key]
	if !ok {
		return "", ErrMissing
	}
	return v, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.m[key] = value
	m.mu.Unlock()
	return nil
}
