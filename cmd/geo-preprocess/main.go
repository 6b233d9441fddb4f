package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"card-api/internal/ingest"
	"card-api/internal/logger"
	"card-api/internal/migrate"
	"card-api/internal/store"
	"card-api/internal/utils"

	"github.com/joho/godotenv"
)

// 文档注释：行政区划预处理批任务
// 背景：将县/选区/区 CSV 转换为前端使用的嵌套 JSON 查找表；按需同时落库与发布到 Redis。
// 约束：默认路径与前端工程约定一致，可通过 GEO_SOURCE_PATH / GEO_OUTPUT_PATH 覆盖；读源失败时退出码为 1 且不写产物。
func main() {
	_ = godotenv.Load(".env")
	l := logger.Setup()
	src := utils.EnvString("GEO_SOURCE_PATH", "csv-Kenya-Counties-Constituencies-Wards.csv")
	out := utils.EnvString("GEO_OUTPUT_PATH", filepath.Join("src", "data", "kenya-geo.json"))
	opts := ingest.Options{SourcePath: src, OutputPath: out}

	ctx, cancel := context.WithTimeout(context.Background(), utils.EnvMillis("GEO_TIMEOUT_MS", 5*time.Minute))
	defer cancel()

	if utils.EnvBool("GEO_IMPORT_TO_DB", false) {
		db, err := utils.OpenPostgresFromEnv()
		if err != nil {
			l.Error("db_open_error", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			l.Error("db_ping_error", "err", err)
			os.Exit(1)
		}
		if err := migrate.EnsureSchema(db); err != nil {
			l.Error("schema_error", "err", err)
			os.Exit(1)
		}
		opts.Importer = store.AttachDB(db)
	}
	if utils.EnvBool("GEO_PUBLISH_REDIS", false) {
		rc := utils.OpenRedisFromEnv()
		if rc == nil {
			l.Error("redis_not_configured")
			os.Exit(1)
		}
		defer rc.Close()
		opts.Publisher = ingest.NewRedisPublisher(rc)
	}

	res, err := ingest.RunGeo(ctx, opts)
	if err != nil {
		l.Error("geo_preprocess_error", "err", err)
		os.Exit(1)
	}
	l.Info("geo_preprocess_done", "out", out, "counties", res.Stats.Counties, "wards", res.Stats.Wards, "duration_ms", res.Duration.Milliseconds())
}
