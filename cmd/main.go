// 程序入口：仅负责读取配置、初始化依赖并启动服务；API 注册在 internal/api 以便扩展
package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"card-api/internal/api"
	"card-api/internal/geo"
	"card-api/internal/localdb"
	"card-api/internal/logger"
	"card-api/internal/metrics"
	"card-api/internal/middleware"
	"card-api/internal/migrate"
	"card-api/internal/profile"
	"card-api/internal/store"
	"card-api/internal/theme"
	"card-api/internal/utils"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	// 日志初始化
	l := logger.Setup()
	l.Debug("log_init_ok")
	apiBase := utils.EnvString("API_BASE", "/api")
	l.Debug("config_api_base", "base", apiBase)
	ui := utils.EnvString("UI_DIST", "dist")
	l.Debug("config_ui_dir", "dir", ui)

	rc := utils.OpenRedisFromEnv()
	if rc == nil {
		l.Info("redis_disabled")
	} else {
		defer rc.Close()
		if err := rc.Ping(context.Background()).Err(); err != nil {
			l.Error("redis_ping_error", "err", err)
		} else {
			l.Info("redis_ping_ok")
		}
	}

	// 文档注释：行政区划数据来源
	// 背景：默认读取预处理产物；GEO_LOAD_FROM_DB=true 时改为从 Postgres 读取（多实例共享一份导入结果）。
	// 约束：启动时加载失败不退出，geo 接口返回 503，直到 /reload-geo 成功。
	artifact := utils.EnvString("GEO_OUTPUT_PATH", filepath.Join("src", "data", "kenya-geo.json"))
	l.Debug("config_geo_artifact", "path", artifact)
	load := func(context.Context) (geo.Hierarchy, error) { return geo.ReadFile(artifact) }
	fromDB := utils.EnvBool("GEO_LOAD_FROM_DB", false)
	if fromDB {
		db, err := utils.OpenPostgresFromEnv()
		if err != nil {
			l.Error("db_open_error", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		l.Info("db_open_ok")
		if err := db.Ping(); err != nil {
			l.Error("db_ping_error", "err", err)
		} else {
			l.Info("db_ping_ok")
		}
		if err := migrate.EnsureSchema(db); err != nil {
			l.Error("schema_error", "err", err)
			os.Exit(1)
		}
		st := store.AttachDB(db)
		load = st.LoadHierarchy
	}

	var gc localdb.GeoCache
	if fromDB {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if h, err := load(ctx); err != nil {
			l.Warn("geo_load_error", "source", "db", "err", err)
		} else {
			gc.Set(h)
			s := h.Stats()
			l.Info("geo_ready", "source", "db", "counties", s.Counties, "wards", s.Wards)
		}
		cancel()
	} else if s, err := gc.LoadFile(artifact); err != nil {
		l.Warn("geo_load_error", "source", "file", "path", artifact, "err", err)
	} else {
		l.Info("geo_ready", "source", "file", "counties", s.Counties, "wards", s.Wards)
	}

	// 文档注释：资料上游客户端
	// 背景：未配置 PROFILE_API_URL 时资料接口返回 503；缓存优先使用 Redis，否则使用进程内 LRU。
	var pc *profile.Client
	if u := os.Getenv("PROFILE_API_URL"); u != "" {
		hc := &http.Client{Timeout: utils.EnvMillis("PROFILE_TIMEOUT_MS", 5*time.Second)}
		ttl := time.Duration(utils.EnvInt("PROFILE_CACHE_TTL_SECONDS", 60)) * time.Second
		var cache profile.Cache
		if rc != nil {
			cache = profile.NewRedisCache(rc)
		} else {
			cache = profile.NewMemoryCache(utils.EnvInt("PROFILE_CACHE_SIZE", 1024))
		}
		pc = profile.NewClient(u, hc, cache, ttl)
		l.Info("profile_client_ready", "redis", rc != nil, "ttl_s", int(ttl.Seconds()))
	} else {
		l.Info("profile_client_disabled")
	}

	var kv theme.KV
	if rc != nil {
		kv = theme.NewRedisKV(rc)
	} else {
		kv = theme.NewMemoryKV()
	}
	ts := theme.NewStore(kv)

	mux := http.NewServeMux()
	// 文档注释：构建路由（携带行政区划缓存、资料客户端与主题存储）
	apiMux := api.BuildRoutes(&gc, pc, ts)
	mux.Handle(apiBase+"/", http.StripPrefix(apiBase, apiMux))
	mux.Handle(apiBase+"/metrics", metrics.Handler())
	mux.Handle(apiBase+"/reload-geo", api.ReloadGeo(&gc, load, os.Getenv("ADMIN_TOKEN")))

	fs := http.FileServer(http.Dir(ui))
	mux.Handle("/", fs)

	// NOTE: 向前端暴露 API 基础路径，避免硬编码；生产环境由后端统一提供
	mux.HandleFunc("/config.js", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/javascript; charset=utf-8")
		w.Header().Set("cache-control", "no-store")
		_, _ = w.Write([]byte("window.__API_BASE__='" + apiBase + "'\n"))
	})

	addr := utils.EnvString("ADDR", ":8080")
	handler := logger.AccessMiddleware(l)(mux)
	handler = middleware.Wrap(handler)
	s := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	l.Info("listening", "addr", addr)
	if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		l.Error("server_error", "err", err)
		os.Exit(1)
	}
}
