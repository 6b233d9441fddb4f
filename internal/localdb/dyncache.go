// 包 localdb：服务进程内常驻的行政区划数据
package localdb

import (
	"sync/atomic"

	"card-api/internal/geo"
)

// 文档注释：可热替换的行政区划缓存
// 背景：通过 atomic.Pointer 提供无锁读写切换，重新加载产物时读路径不阻塞、不中断服务。
// 约束：Set 之后的结构视为只读，调用方不得再修改传入的 Hierarchy。
type GeoCache struct {
	v atomic.Pointer[geo.Hierarchy]
}

// Get：返回当前结构；尚未加载时 ok=false
func (c *GeoCache) Get() (geo.Hierarchy, bool) {
	p := c.v.Load()
	if p == nil {
		return nil, false
	}
	return *p, true
}

// Set：切换当前结构，立即对后续读取生效；nil 视为空结构
func (c *GeoCache) Set(h geo.Hierarchy) {
	if h == nil {
		h = geo.Hierarchy{}
	}
	c.v.Store(&h)
}

// Ready：是否已加载过产物
func (c *GeoCache) Ready() bool { return c.v.Load() != nil }

// LoadFile：从产物文件加载并切换；失败时保留原有结构
func (c *GeoCache) LoadFile(path string) (geo.Stats, error) {
	h, err := geo.ReadFile(path)
	if err != nil {
		return geo.Stats{}, err
	}
	c.Set(h)
	return h.Stats(), nil
}
