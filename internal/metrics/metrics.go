package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	GeoRowsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cardapi_geo_rows_total",
		Help: "Geo source rows processed by outcome (kept, dropped, duplicate)",
	}, []string{"outcome"})
	GeoBuildDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cardapi_geo_build_duration_ms",
		Help:    "Geo hierarchy build duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	GeoReloadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cardapi_geo_reloads_total",
		Help: "Geo artifact reloads by status",
	}, []string{"status"})
	GeoRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cardapi_geo_requests_total",
		Help: "Geo lookup requests by endpoint and status",
	}, []string{"endpoint", "status"})
	ProfileRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cardapi_profile_requests_total",
		Help: "Total upstream profile API requests",
	})
	ProfileFailTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cardapi_profile_fail_total",
		Help: "Upstream profile API failures by kind",
	}, []string{"kind"})
	ProfileDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cardapi_profile_duration_ms",
		Help:    "Upstream profile API call duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 2000},
	})
	ProfileCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cardapi_profile_cache_hits_total",
		Help: "Total profile cache hits",
	})
	ProfileCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cardapi_profile_cache_misses_total",
		Help: "Total profile cache misses",
	})
	ThemeTogglesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cardapi_theme_toggles_total",
		Help: "Theme toggles by resulting theme",
	}, []string{"theme"})
	RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cardapi_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	})
)

func init() {
	prometheus.MustRegister(GeoRowsTotal)
	prometheus.MustRegister(GeoBuildDurationMs)
	prometheus.MustRegister(GeoReloadsTotal)
	prometheus.MustRegister(GeoRequestsTotal)
	prometheus.MustRegister(ProfileRequestsTotal)
	prometheus.MustRegister(ProfileFailTotal)
	prometheus.MustRegister(ProfileDurationMs)
	prometheus.MustRegister(ProfileCacheHitsTotal)
	prometheus.MustRegister(ProfileCacheMissesTotal)
	prometheus.MustRegister(ThemeTogglesTotal)
	prometheus.MustRegister(RateLimitedTotal)
}

// 文档注释：返回 Prometheus 指标监听器
// 背景：统一暴露注册指标，供 Prometheus 抓取；在主入口挂载到 API_BASE/metrics。
func Handler() http.Handler { return promhttp.Handler() }
