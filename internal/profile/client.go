package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"card-api/internal/logger"
	"card-api/internal/metrics"
)

// 失败分类：调用方据此区分“网络/传输失败”“上游应用报错”“资料不存在”并给出不同提示
var (
	ErrTransport = errors.New("profile transport failure")
	ErrUpstream  = errors.New("profile upstream error")
	ErrNotFound  = errors.New("profile not found")
)

// UpstreamError：上游以 {"error": "..."} 报告的应用错误，保留原始消息
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string { return "profile upstream error: " + e.Message }

func (e *UpstreamError) Unwrap() error { return ErrUpstream }

const maxBodyBytes = 1 << 20

// Cache：归一化名片的缓存，Redis 与进程内 LRU 各有一个实现
type Cache interface {
	Get(ctx context.Context, id string) (*Card, bool)
	Set(ctx context.Context, id string, c *Card, ttl time.Duration)
}

type Client struct {
	baseURL string
	hc      *http.Client
	cache   Cache
	ttl     time.Duration
	now     func() time.Time
}

// NewClient：cache 为 nil 或 ttl<=0 时不缓存
func NewClient(baseURL string, hc *http.Client, cache Cache, ttl time.Duration) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{baseURL: baseURL, hc: hc, cache: cache, ttl: ttl, now: time.Now}
}

// 文档注释：按 ID 获取并归一化名片
// 背景：上游为按 ID 读取的单一端点，附带毫秒时间戳参数 v 以绕过中间层缓存；本服务自身的缓存由 ttl 控制。
// 返回：成功为归一化名片；失败按 ErrTransport / ErrUpstream / ErrNotFound 分类，可用 errors.Is 判定。
// 约束：响应体上限 1MB；JSON 解析失败按传输失败处理。
func (c *Client) Fetch(ctx context.Context, id string) (*Card, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}
	if c.cache != nil && c.ttl > 0 {
		if card, ok := c.cache.Get(ctx, id); ok {
			metrics.ProfileCacheHitsTotal.Inc()
			return card, nil
		}
		metrics.ProfileCacheMissesTotal.Inc()
	}
	u, err := c.requestURL(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("accept", "application/json")

	t0 := time.Now()
	metrics.ProfileRequestsTotal.Inc()
	logger.L().Debug("profile_req", "id", id)
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, c.fail("transport", fmt.Errorf("%w: %v", ErrTransport, err))
	}
	defer resp.Body.Close()
	metrics.ProfileDurationMs.Observe(float64(time.Since(t0).Milliseconds()))
	logger.L().Debug("profile_resp", "id", id, "status", resp.StatusCode)

	if resp.StatusCode == http.StatusNotFound {
		return nil, c.fail("not_found", ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.fail("transport", fmt.Errorf("%w: status %d", ErrTransport, resp.StatusCode))
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, c.fail("transport", fmt.Errorf("%w: %v", ErrTransport, err))
	}
	card, err := decode(id, body)
	if err != nil {
		kind := "transport"
		if errors.Is(err, ErrUpstream) {
			kind = "upstream"
		} else if errors.Is(err, ErrNotFound) {
			kind = "not_found"
		}
		return nil, c.fail(kind, err)
	}
	if c.cache != nil && c.ttl > 0 {
		c.cache.Set(ctx, id, card, c.ttl)
	}
	return card, nil
}

func (c *Client) requestURL(id string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("id", id)
	q.Set("v", strconv.FormatInt(c.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) fail(kind string, err error) error {
	metrics.ProfileFailTotal.WithLabelValues(kind).Inc()
	logger.L().Warn("profile_fetch_error", "kind", kind, "err", err)
	return err
}

// decode：区分空响应、错误信封与资料记录
func decode(id string, body []byte) (*Card, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, ErrNotFound
	}
	var env map[string]json.RawMessage
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrTransport, err)
	}
	if raw, ok := env["error"]; ok && truthy(raw) {
		var msg Text
		if err := json.Unmarshal(raw, &msg); err != nil || msg == "" {
			msg = Text(raw)
		}
		return nil, &UpstreamError{Message: msg.String()}
	}
	var r Record
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrTransport, err)
	}
	return Normalize(id, r), nil
}

// truthy：按上游约定，空串、false、0、null 不视为错误
func truthy(raw json.RawMessage) bool {
	switch strings.TrimSpace(string(raw)) {
	case "", "null", "false", "0", `""`:
		return false
	}
	return true
}
