package api

import "card-api/internal/geo"

// 文档注释：对外返回结构
// 背景：统一对外序列化模型，仅包含必要字段；县/选区名回显归一化后的键，便于前端直接作为下一级查询参数。
// 约束：字段稳定；新增字段需评估兼容性与前端依赖。
type countiesResult struct {
	Counties []string `json:"counties"`
}

type constituenciesResult struct {
	County         string   `json:"county"`
	Constituencies []string `json:"constituencies"`
}

type wardsResult struct {
	County       string   `json:"county"`
	Constituency string   `json:"constituency"`
	Wards        []string `json:"wards"`
}

type reloadResult struct {
	Status string    `json:"status"`
	Stats  geo.Stats `json:"stats"`
}

type themeResult struct {
	Visitor string `json:"visitor"`
	Theme   string `json:"theme"`
}

type errorResult struct {
	Error string `json:"error"`
}
