package utils

import (
	"database/sql"

	_ "github.com/lib/pq"
)

// BuildPostgresDSNFromEnv：由 PG_* 环境变量拼接连接串，未配置项使用本地默认值
func BuildPostgresDSNFromEnv() string {
	host := EnvString("PG_HOST", "localhost")
	port := EnvString("PG_PORT", "5432")
	user := EnvString("PG_USER", "postgres")
	pass := EnvString("PG_PASSWORD", "")
	db := EnvString("PG_DB", "cardapi")
	ssl := EnvString("PG_SSLMODE", "disable")
	dsn := "postgres://" + user
	if pass != "" {
		dsn += ":" + pass
	}
	dsn += "@" + host + ":" + port + "/" + db + "?sslmode=" + ssl
	return dsn
}

// OpenPostgresFromEnv：打开连接池；sql.Open 不建立连接，调用方需自行 Ping
func OpenPostgresFromEnv() (*sql.DB, error) {
	db, err := sql.Open("postgres", BuildPostgresDSNFromEnv())
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(EnvInt("PG_MAX_OPEN_CONNS", 10))
	db.SetMaxIdleConns(EnvInt("PG_MAX_IDLE_CONNS", 5))
	return db, nil
}
