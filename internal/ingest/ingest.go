// 包 ingest：行政区划源数据的离线处理通道（CSV → JSON 产物，可选落库与发布）
package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"card-api/internal/geo"
	"card-api/internal/logger"
	"card-api/internal/metrics"
)

// ErrSourceUnreadable：源文件无法读取，整次运行失败且不写出任何产物
var ErrSourceUnreadable = errors.New("geo source unreadable")

// Importer：产物落库的目标（store.Store 实现）
type Importer interface {
	ImportHierarchy(ctx context.Context, h geo.Hierarchy) (geo.Stats, error)
}

// Publisher：产物发布的目标（Redis 实现）
type Publisher interface {
	Publish(ctx context.Context, h geo.Hierarchy) error
}

type Options struct {
	SourcePath string
	OutputPath string
	Importer   Importer
	Publisher  Publisher
}

type Result struct {
	Report   geo.Report
	Stats    geo.Stats
	Duration time.Duration
}

// 文档注释：执行一次行政区划预处理
// 背景：一次性读入整个源文件构建结构后写出产物；落库与发布为可选的后续步骤，任一失败即返回错误。
// 约束：读源失败返回 ErrSourceUnreadable；产物写出采用临时文件重命名，失败时不覆盖旧产物。
func RunGeo(ctx context.Context, opts Options) (*Result, error) {
	l := logger.L()
	l.Info("geo_preprocess_begin", "src", opts.SourcePath, "out", opts.OutputPath)
	raw, err := os.ReadFile(opts.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnreadable, opts.SourcePath, err)
	}

	t0 := time.Now()
	h, rep := geo.BuildReport(string(raw))
	dur := time.Since(t0)
	metrics.GeoBuildDurationMs.Observe(float64(dur.Milliseconds()))
	metrics.GeoRowsTotal.WithLabelValues("kept").Add(float64(rep.Kept))
	metrics.GeoRowsTotal.WithLabelValues("dropped").Add(float64(rep.Dropped))
	metrics.GeoRowsTotal.WithLabelValues("duplicate").Add(float64(rep.Duplicates))
	st := h.Stats()
	l.Info("geo_build_done",
		"rows", rep.Rows,
		"kept", rep.Kept,
		"dropped", rep.Dropped,
		"duplicates", rep.Duplicates,
		"counties", st.Counties,
		"constituencies", st.Constituencies,
		"wards", st.Wards,
	)

	if err := geo.WriteFile(opts.OutputPath, h); err != nil {
		return nil, fmt.Errorf("write geo artifact: %w", err)
	}
	l.Info("geo_artifact_written", "path", opts.OutputPath)

	if opts.Importer != nil {
		if _, err := opts.Importer.ImportHierarchy(ctx, h); err != nil {
			return nil, fmt.Errorf("import geo hierarchy: %w", err)
		}
	}
	if opts.Publisher != nil {
		if err := opts.Publisher.Publish(ctx, h); err != nil {
			return nil, fmt.Errorf("publish geo hierarchy: %w", err)
		}
		l.Info("geo_published")
	}
	return &Result{Report: rep, Stats: st, Duration: dur}, nil
}
