package middleware

import (
	"net/http"
	"sync"
	"time"

	"card-api/internal/metrics"
	"card-api/internal/utils"
)

// 文档注释：令牌桶限流（每秒）
// 背景：资料代理会穿透到上游 API，在流量峰值时对入口限速，避免上游配额被打满。
// 约束：不做排队，超出即返回 429；每秒整点补满。
type TokenBucket struct {
	capacity int
	tokens   int
	lastSec  int64
	now      func() time.Time
	mu       sync.Mutex
}

func NewTokenBucket(qps int) *TokenBucket {
	tb := &TokenBucket{capacity: qps, tokens: qps, now: time.Now}
	tb.lastSec = tb.now().Unix()
	return tb
}

func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	nowSec := tb.now().Unix()
	if tb.lastSec != nowSec {
		tb.lastSec = nowSec
		tb.tokens = tb.capacity
	}
	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

// Limit：用令牌桶包装处理器
func Limit(tb *TokenBucket, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !tb.Allow() {
			metrics.RateLimitedTotal.Inc()
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Wrap：按 RATE_LIMIT_ENABLED / RATE_LIMIT_QPS 决定是否启用限流
func Wrap(next http.Handler) http.Handler {
	if !utils.EnvBool("RATE_LIMIT_ENABLED", false) {
		return next
	}
	qps := utils.EnvInt("RATE_LIMIT_QPS", 200)
	if qps <= 0 {
		qps = 200
	}
	return Limit(NewTokenBucket(qps), next)
}
