package utils

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvString：读取字符串配置，空值回退默认
func EnvString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// EnvInt：读取整数配置；解析失败静默回退默认，与各入口既有行为一致
func EnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

// EnvBool：仅 "true"（不区分大小写）视为开启；未设置时取默认
func EnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return strings.EqualFold(strings.TrimSpace(v), "true")
}

// EnvMillis：以毫秒整数配置时长
func EnvMillis(key string, def time.Duration) time.Duration {
	n := EnvInt(key, -1)
	if n < 0 {
		return def
	}
	return time.Duration(n) * time.Millisecond
}
