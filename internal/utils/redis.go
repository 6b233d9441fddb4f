// 包 utils：连接与环境变量工具，统一各入口的配置读取方式
package utils

import (
	"card-api/internal/logger"

	"github.com/redis/go-redis/v9"
)

// OpenRedisFromEnv：从环境变量打开 Redis 客户端
// 背景：Redis 在本项目中仅承担资料缓存、主题偏好与产物发布，属于可选依赖。
// 约束：未配置 REDIS_HOST 时返回 nil，调用方据此降级为进程内实现；REDIS_DB 解析失败回退到 0。
func OpenRedisFromEnv() *redis.Client {
	host := EnvString("REDIS_HOST", "")
	if host == "" {
		return nil
	}
	addr := host + ":" + EnvString("REDIS_PORT", "6379")
	db := EnvInt("REDIS_DB", 0)
	if db < 0 {
		db = 0
	}
	logger.L().Debug("redis_env", "addr", addr, "db", db)
	return redis.NewClient(&redis.Options{Addr: addr, Password: EnvString("REDIS_PASS", ""), DB: db})
}
