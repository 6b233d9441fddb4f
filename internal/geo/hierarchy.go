// 包 geo：肯尼亚县（County）→ 选区（Constituency）→ 区（Ward）三级行政区划的构建与读取
package geo

import (
	"sort"
	"strings"
)

// 源数据列序号：0/2/4 为编码列，不参与构建
const (
	colCounty       = 1
	colConstituency = 3
	colWard         = 5
)

// 文档注释：三级行政区划结构
// 背景：作为前端静态查找表与服务端查询的统一载体；外两层视为无序键集合，叶子层为升序去重的区名列表。
// 约束：县/选区键为大写；区名保留原始大小写，仅去首尾空白。
type Hierarchy map[string]map[string][]string

// Report：一次构建的行统计，仅用于日志与指标，不影响构建结果
type Report struct {
	Rows       int `json:"rows"`
	Kept       int `json:"kept"`
	Dropped    int `json:"dropped"`
	Duplicates int `json:"duplicates"`
}

// Stats：结构规模统计
type Stats struct {
	Counties       int `json:"counties"`
	Constituencies int `json:"constituencies"`
	Wards          int `json:"wards"`
}

type row struct {
	county       string
	constituency string
	ward         string
}

// parseRow：从一行中抽取县/选区/区三个字段；任一为空即视为无效行
func parseRow(line string) (row, bool) {
	parts, ok := splitRow(line)
	if !ok {
		return row{}, false
	}
	r := row{
		county:       NormalizeKey(field(parts, colCounty)),
		constituency: NormalizeKey(field(parts, colConstituency)),
		ward:         field(parts, colWard),
	}
	if r.county == "" || r.constituency == "" || r.ward == "" {
		return row{}, false
	}
	return r, true
}

// Build：由原始 CSV 文本构建行政区划
// 背景：首行为表头直接丢弃；畸形行静默跳过，不中断后续处理。
// 返回：完整结构；仅有表头或空输入时返回空结构而非错误。
func Build(raw string) Hierarchy {
	h, _ := BuildReport(raw)
	return h
}

// 文档注释：构建并返回行统计
// 背景：批处理工具需要记录丢弃与重复行数量以便核对源数据质量；构建语义与 Build 完全一致。
// 约束：区名在全部行插入完成后统一排序一次，结果与行顺序无关。
func BuildReport(raw string) (Hierarchy, Report) {
	h := Hierarchy{}
	var rep Report
	text := strings.TrimSpace(raw)
	if text == "" {
		return h, rep
	}
	lines := strings.Split(text, "\n")
	for _, line := range lines[1:] {
		rep.Rows++
		r, ok := parseRow(strings.TrimSpace(line))
		if !ok {
			rep.Dropped++
			continue
		}
		rep.Kept++
		if !h.add(r) {
			rep.Duplicates++
		}
	}
	h.sortWards()
	return h, rep
}

// add：插入一条有效行；区名已存在时返回 false
func (h Hierarchy) add(r row) bool {
	cons, ok := h[r.county]
	if !ok {
		cons = map[string][]string{}
		h[r.county] = cons
	}
	wards := cons[r.constituency]
	for _, w := range wards {
		if w == r.ward {
			return false
		}
	}
	if wards == nil {
		wards = []string{}
	}
	cons[r.constituency] = append(wards, r.ward)
	return true
}

func (h Hierarchy) sortWards() {
	for _, cons := range h {
		for _, wards := range cons {
			sort.Strings(wards)
		}
	}
}

// Counties：返回升序的县名列表
func (h Hierarchy) Counties() []string {
	out := make([]string, 0, len(h))
	for k := range h {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Constituencies：返回某县下升序的选区名；县名按输入规则归一后查找
func (h Hierarchy) Constituencies(county string) ([]string, bool) {
	cons, ok := h[NormalizeKey(county)]
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(cons))
	for k := range cons {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, true
}

// Wards：返回某选区下的区名副本，调用方修改不会影响共享结构
func (h Hierarchy) Wards(county, constituency string) ([]string, bool) {
	cons, ok := h[NormalizeKey(county)]
	if !ok {
		return nil, false
	}
	wards, ok := cons[NormalizeKey(constituency)]
	if !ok {
		return nil, false
	}
	out := make([]string, len(wards))
	copy(out, wards)
	return out, true
}

func (h Hierarchy) Stats() Stats {
	var s Stats
	s.Counties = len(h)
	for _, cons := range h {
		s.Constituencies += len(cons)
		for _, wards := range cons {
			s.Wards += len(wards)
		}
	}
	return s
}

// Equal：结构相等比较；外两层不计顺序，叶子层按序比较（叶子已排序）
func (h Hierarchy) Equal(o Hierarchy) bool {
	if len(h) != len(o) {
		return false
	}
	for county, cons := range h {
		ocons, ok := o[county]
		if !ok || len(cons) != len(ocons) {
			return false
		}
		for name, wards := range cons {
			owards, ok := ocons[name]
			if !ok || len(wards) != len(owards) {
				return false
			}
			for i := range wards {
				if wards[i] != owards[i] {
					return false
				}
			}
		}
	}
	return true
}
