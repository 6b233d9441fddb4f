package geo

import "strings"

// 文档注释：按逗号切分一行数据，引号内的逗号不作为分隔符
// 背景：源数据的名称字段可能带逗号（如 "WESTLANDS, CENTRAL"），朴素 Split 会让后续字段序号整体错位。
// 约束：逗号前出现偶数个双引号才视为分隔符；整行引号个数为奇数时视为畸形行，返回 ok=false 由上层丢弃。
func splitRow(line string) ([]string, bool) {
	var parts []string
	quotes := 0
	start := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			quotes++
		case ',':
			if quotes%2 == 0 {
				parts = append(parts, line[start:i])
				start = i + 1
			}
		}
	}
	if quotes%2 != 0 {
		return nil, false
	}
	parts = append(parts, line[start:])
	return parts, true
}

// unquote：去掉首尾成对的双引号，并把内部的 "" 还原为 "
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = strings.ReplaceAll(s[1:len(s)-1], `""`, `"`)
		s = strings.TrimSpace(s)
	}
	return s
}

// field：读取第 i 列并清洗；列不存在时返回空串
func field(parts []string, i int) string {
	if i < 0 || i >= len(parts) {
		return ""
	}
	return unquote(parts[i])
}

// NormalizeKey：县/选区名统一为去空白后的大写形式，查询参数与构建使用同一规则
func NormalizeKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
