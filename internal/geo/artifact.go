package geo

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// 文档注释：将行政区划写出为缩进 JSON 文件
// 背景：产物供前端静态查找与服务端加载；encoding/json 对 map 键排序输出，相同输入得到字节一致的文件。
// 约束：父目录不存在时自动创建；先写临时文件再重命名，失败时不留下半成品。
func WriteFile(path string, h Hierarchy) error {
	if h == nil {
		h = Hierarchy{}
	}
	b, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".geo-*.json")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// ReadFile：读取 WriteFile 写出的产物
func ReadFile(path string) (Hierarchy, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(b)
}

// Decode：解析 JSON 产物；null 视为空结构
func Decode(b []byte) (Hierarchy, error) {
	var h Hierarchy
	if err := json.Unmarshal(b, &h); err != nil {
		return nil, err
	}
	if h == nil {
		h = Hierarchy{}
	}
	return h, nil
}
