// 包 cache：进程内 LRU 缓存，带过期时间
package cache

import (
	"container/list"
	"sync"
	"time"
)

// 文档注释：本地 LRU 缓存
// 背景：未配置 Redis 时作为资料缓存的兜底实现，热点名片在短周期内重复访问，避免每次穿透上游。
// 约束：容量按条目计；过期条目在读取时惰性剔除。
type LRU[V any] struct {
	mu   sync.Mutex
	cap  int
	lst  *list.List
	dict map[string]*list.Element
	now  func() time.Time
}

type entry[V any] struct {
	k   string
	v   V
	exp time.Time
}

func NewLRU[V any](capacity int) *LRU[V] {
	if capacity <= 0 {
		capacity = 1
	}
	return &LRU[V]{cap: capacity, lst: list.New(), dict: make(map[string]*list.Element), now: time.Now}
}

func (c *LRU[V]) Get(k string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero V
	e, ok := c.dict[k]
	if !ok {
		return zero, false
	}
	it := e.Value.(entry[V])
	if !c.now().Before(it.exp) {
		c.lst.Remove(e)
		delete(c.dict, k)
		return zero, false
	}
	c.lst.MoveToFront(e)
	return it.v, true
}

func (c *LRU[V]) Set(k string, v V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	it := entry[V]{k: k, v: v, exp: c.now().Add(ttl)}
	if e, ok := c.dict[k]; ok {
		e.Value = it
		c.lst.MoveToFront(e)
		return
	}
	c.dict[k] = c.lst.PushFront(it)
	for c.lst.Len() > c.cap {
		back := c.lst.Back()
		if back == nil {
			break
		}
		delete(c.dict, back.Value.(entry[V]).k)
		c.lst.Remove(back)
	}
}

func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lst.Len()
}
