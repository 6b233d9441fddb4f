// 包 store: 行政区划在 PostgreSQL 中的数据访问层，提供整表导入与按层级查询
package store

import (
	"context"
	"database/sql"

	"card-api/internal/geo"
	"card-api/internal/logger"

	_ "github.com/lib/pq"
)

// Store: 数据库访问入口，持有连接池
type Store struct {
	db *sql.DB
}

func AttachDB(db *sql.DB) *Store { return &Store{db: db} }

// Open: 使用 DSN 打开数据库连接并配置连接池参数
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

const (
	upsertCountySQL = `INSERT INTO _geo_counties(name) VALUES($1)
        ON CONFLICT (name) DO UPDATE SET name=EXCLUDED.name RETURNING id`
	upsertConstituencySQL = `INSERT INTO _geo_constituencies(county_id, name) VALUES($1,$2)
        ON CONFLICT (county_id, name) DO UPDATE SET name=EXCLUDED.name RETURNING id`
	insertWardSQL = `INSERT INTO _geo_wards(constituency_id, name) VALUES($1,$2)
        ON CONFLICT (constituency_id, name) DO NOTHING`
)

// 文档注释：导入完整行政区划
// 背景：批处理产物同时落库，供其他服务按层级查询；单事务提交，失败时整体回滚不留半成品。
// 约束：按县/选区名升序导入，保证主键分配与运行顺序无关；已存在的记录保留原主键。
// 返回：本次写入结构的规模统计。
func (s *Store) ImportHierarchy(ctx context.Context, h geo.Hierarchy) (geo.Stats, error) {
	logger.L().Debug("db_import_begin", "counties", len(h))
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return geo.Stats{}, err
	}
	defer tx.Rollback()

	stmtCounty, err := tx.PrepareContext(ctx, upsertCountySQL)
	if err != nil {
		return geo.Stats{}, err
	}
	defer stmtCounty.Close()
	stmtCons, err := tx.PrepareContext(ctx, upsertConstituencySQL)
	if err != nil {
		return geo.Stats{}, err
	}
	defer stmtCons.Close()
	stmtWard, err := tx.PrepareContext(ctx, insertWardSQL)
	if err != nil {
		return geo.Stats{}, err
	}
	defer stmtWard.Close()

	for _, county := range h.Counties() {
		var countyID int
		if err := stmtCounty.QueryRowContext(ctx, county).Scan(&countyID); err != nil {
			return geo.Stats{}, err
		}
		cons, _ := h.Constituencies(county)
		for _, name := range cons {
			var consID int
			if err := stmtCons.QueryRowContext(ctx, countyID, name).Scan(&consID); err != nil {
				return geo.Stats{}, err
			}
			for _, ward := range h[county][name] {
				if _, err := stmtWard.ExecContext(ctx, consID, ward); err != nil {
					return geo.Stats{}, err
				}
			}
		}
		logger.L().Debug("db_import_county", "county", county, "id", countyID)
	}
	if err := tx.Commit(); err != nil {
		return geo.Stats{}, err
	}
	st := h.Stats()
	logger.L().Info("db_import_done", "counties", st.Counties, "constituencies", st.Constituencies, "wards", st.Wards)
	return st, nil
}

// Counties: 返回全部县名；COLLATE "C" 保证与内存结构一致的字节序
func (s *Store) Counties(ctx context.Context) ([]string, error) {
	return s.names(ctx, `SELECT name FROM _geo_counties ORDER BY name COLLATE "C"`)
}

// Constituencies: 返回某县下的选区名；县不存在时返回空列表
func (s *Store) Constituencies(ctx context.Context, county string) ([]string, error) {
	return s.names(ctx, `SELECT k.name FROM _geo_constituencies k
        JOIN _geo_counties c ON c.id = k.county_id
        WHERE c.name = $1
        ORDER BY k.name COLLATE "C"`, county)
}

// Wards: 返回某选区下的区名
func (s *Store) Wards(ctx context.Context, county, constituency string) ([]string, error) {
	return s.names(ctx, `SELECT w.name FROM _geo_wards w
        JOIN _geo_constituencies k ON k.id = w.constituency_id
        JOIN _geo_counties c ON c.id = k.county_id
        WHERE c.name = $1 AND k.name = $2
        ORDER BY w.name COLLATE "C"`, county, constituency)
}

// 文档注释：从数据库还原完整行政区划
// 背景：服务启动时产物文件缺失可回退到数据库加载；结果与批处理产物结构一致。
func (s *Store) LoadHierarchy(ctx context.Context) (geo.Hierarchy, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT c.name, k.name, w.name FROM _geo_wards w
        JOIN _geo_constituencies k ON k.id = w.constituency_id
        JOIN _geo_counties c ON c.id = k.county_id
        ORDER BY c.name COLLATE "C", k.name COLLATE "C", w.name COLLATE "C"`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	h := geo.Hierarchy{}
	for rows.Next() {
		var county, cons, ward string
		if err := rows.Scan(&county, &cons, &ward); err != nil {
			return nil, err
		}
		if h[county] == nil {
			h[county] = map[string][]string{}
		}
		h[county][cons] = append(h[county][cons], ward)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.L().Debug("db_load_hierarchy", "counties", len(h))
	return h, nil
}

func (s *Store) names(ctx context.Context, q string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
