package migrate

import (
	"database/sql"

	"card-api/internal/logger"
)

// 背景：首次导入时自动创建行政区划三张表，保障后续导入与查询
// 约束：使用 IF NOT EXISTS 避免与既有结构冲突；名称唯一性与内存结构的去重规则一致（区分大小写）。
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS _geo_counties (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL UNIQUE
        )`,
		`CREATE TABLE IF NOT EXISTS _geo_constituencies (
            id SERIAL PRIMARY KEY,
            county_id INT NOT NULL REFERENCES _geo_counties(id) ON DELETE CASCADE,
            name TEXT NOT NULL,
            UNIQUE (county_id, name)
        )`,
		`CREATE TABLE IF NOT EXISTS _geo_wards (
            id SERIAL PRIMARY KEY,
            constituency_id INT NOT NULL REFERENCES _geo_constituencies(id) ON DELETE CASCADE,
            name TEXT NOT NULL,
            UNIQUE (constituency_id, name)
        )`,
		`CREATE INDEX IF NOT EXISTS idx_geo_wards_constituency ON _geo_wards(constituency_id)`,
	}
	for i, s := range stmts {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	logger.L().Debug("schema_done")
	return nil
}
