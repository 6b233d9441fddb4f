// 包 api：集中注册 HTTP API 路由以解耦主入口，便于后续扩展与替换
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"card-api/internal/geo"
	"card-api/internal/localdb"
	"card-api/internal/logger"
	"card-api/internal/metrics"
	"card-api/internal/profile"
	"card-api/internal/theme"
)

// GeoLoader：重新加载行政区划的数据来源（产物文件或数据库）
type GeoLoader func(ctx context.Context) (geo.Hierarchy, error)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResult{Error: msg})
}

// 解析访问者 IP：优先常见反向代理头，最后回落到连接地址；保证在多层代理场景下稳定获取源 IP
func getClientIP(r *http.Request) string {
	h := r.Header
	if x := h.Get("x-forwarded-for"); x != "" {
		return strings.TrimSpace(strings.Split(x, ",")[0])
	}
	if x := h.Get("cf-connecting-ip"); x != "" {
		return x
	}
	if x := h.Get("x-real-ip"); x != "" {
		return x
	}
	if x := h.Get("x-client-ip"); x != "" {
		return x
	}
	if x := h.Get("forwarded"); x != "" {
		i := strings.Index(strings.ToLower(x), "for=")
		if i >= 0 {
			y := x[i+4:]
			if p := strings.IndexByte(y, ';'); p >= 0 {
				y = y[:p]
			}
			if p := strings.IndexByte(y, ','); p >= 0 {
				y = y[:p]
			}
			return strings.Trim(y, "\" ")
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// visitorOf：访客标识，优先参数 visitor，其次客户端 IP
func visitorOf(r *http.Request) string {
	if v := strings.TrimSpace(r.URL.Query().Get("visitor")); v != "" {
		return v
	}
	return getClientIP(r)
}

// geoHandler：统一处理“产物未就绪”与请求计数
func geoHandler(gc *localdb.GeoCache, endpoint string, fn func(w http.ResponseWriter, r *http.Request, h geo.Hierarchy) int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusServiceUnavailable
		if h, ok := gc.Get(); ok {
			status = fn(w, r, h)
		} else {
			writeError(w, status, "geo data not loaded")
		}
		metrics.GeoRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	}
}

// 文档注释：构建并返回 API 路由
// 背景：独立 ServeMux 便于在主入口挂载到 /api 前缀；pc 为 nil 时资料接口返回 503（未配置上游）。
// 约束：所有错误响应体均为 {"error": "..."}。
func BuildRoutes(gc *localdb.GeoCache, pc *profile.Client, ts *theme.Store) *http.ServeMux {
	apiMux := http.NewServeMux()

	apiMux.HandleFunc("/geo/counties", geoHandler(gc, "counties", func(w http.ResponseWriter, r *http.Request, h geo.Hierarchy) int {
		writeJSON(w, http.StatusOK, countiesResult{Counties: h.Counties()})
		return http.StatusOK
	}))

	apiMux.HandleFunc("/geo/constituencies", geoHandler(gc, "constituencies", func(w http.ResponseWriter, r *http.Request, h geo.Hierarchy) int {
		county := r.URL.Query().Get("county")
		if strings.TrimSpace(county) == "" {
			writeError(w, http.StatusBadRequest, "county is required")
			return http.StatusBadRequest
		}
		cons, ok := h.Constituencies(county)
		if !ok {
			writeError(w, http.StatusNotFound, "county not found")
			return http.StatusNotFound
		}
		writeJSON(w, http.StatusOK, constituenciesResult{County: geo.NormalizeKey(county), Constituencies: cons})
		return http.StatusOK
	}))

	apiMux.HandleFunc("/geo/wards", geoHandler(gc, "wards", func(w http.ResponseWriter, r *http.Request, h geo.Hierarchy) int {
		q := r.URL.Query()
		county, constituency := q.Get("county"), q.Get("constituency")
		if strings.TrimSpace(county) == "" || strings.TrimSpace(constituency) == "" {
			writeError(w, http.StatusBadRequest, "county and constituency are required")
			return http.StatusBadRequest
		}
		wards, ok := h.Wards(county, constituency)
		if !ok {
			writeError(w, http.StatusNotFound, "constituency not found")
			return http.StatusNotFound
		}
		writeJSON(w, http.StatusOK, wardsResult{
			County:       geo.NormalizeKey(county),
			Constituency: geo.NormalizeKey(constituency),
			Wards:        wards,
		})
		return http.StatusOK
	}))

	apiMux.HandleFunc("/geo/stats", geoHandler(gc, "stats", func(w http.ResponseWriter, r *http.Request, h geo.Hierarchy) int {
		writeJSON(w, http.StatusOK, h.Stats())
		return http.StatusOK
	}))

	apiMux.HandleFunc("/profile", func(w http.ResponseWriter, r *http.Request) {
		if pc == nil {
			writeError(w, http.StatusServiceUnavailable, "profile api not configured")
			return
		}
		card, err := pc.Fetch(r.Context(), r.URL.Query().Get("id"))
		if err != nil {
			var ue *profile.UpstreamError
			switch {
			case errors.As(err, &ue):
				writeError(w, http.StatusUnprocessableEntity, ue.Message)
			case errors.Is(err, profile.ErrNotFound):
				writeError(w, http.StatusNotFound, "profile not found")
			default:
				writeError(w, http.StatusBadGateway, "profile api unavailable")
			}
			return
		}
		writeJSON(w, http.StatusOK, card)
	})

	apiMux.HandleFunc("/theme", func(w http.ResponseWriter, r *http.Request) {
		visitor := visitorOf(r)
		t, err := ts.Get(r.Context(), visitor)
		if err != nil {
			// 后端不可用时仍返回默认主题，页面不因偏好读取失败而中断
			logger.L().Error("theme_get_error", "visitor", visitor, "err", err)
		}
		writeJSON(w, http.StatusOK, themeResult{Visitor: visitor, Theme: string(t)})
	})

	apiMux.HandleFunc("/theme/toggle", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("allow", http.MethodPost)
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		visitor := visitorOf(r)
		t, err := ts.Toggle(r.Context(), visitor)
		if err != nil {
			logger.L().Error("theme_toggle_error", "visitor", visitor, "err", err)
			writeError(w, http.StatusInternalServerError, "theme store unavailable")
			return
		}
		writeJSON(w, http.StatusOK, themeResult{Visitor: visitor, Theme: string(t)})
	})

	return apiMux
}

// 文档注释：行政区划热重载接口
// 背景：产物重新生成后无需重启服务；校验 x-admin-token 后经 load 读取并原子切换 GeoCache。
// 约束：未配置 ADMIN_TOKEN 时一律拒绝；加载失败保留旧数据并返回 500。
func ReloadGeo(gc *localdb.GeoCache, load GeoLoader, token string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("allow", http.MethodPost)
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		t := r.Header.Get("x-admin-token")
		if t == "" || token == "" || t != token {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		h, err := load(r.Context())
		if err != nil {
			metrics.GeoReloadsTotal.WithLabelValues("error").Inc()
			logger.L().Error("geo_reload_error", "err", err)
			writeError(w, http.StatusInternalServerError, "reload failed")
			return
		}
		gc.Set(h)
		metrics.GeoReloadsTotal.WithLabelValues("ok").Inc()
		st := h.Stats()
		logger.L().Info("geo_reloaded", "counties", st.Counties, "constituencies", st.Constituencies, "wards", st.Wards)
		writeJSON(w, http.StatusOK, reloadResult{Status: "ok", Stats: st})
	}
}
