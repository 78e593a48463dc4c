// Package database 负责根据 DATABASE_URL 打开 gorm 连接。
package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"feedback-assist-go/internal/config"
	"feedback-assist-go/pkg/log"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open 根据 URL scheme 选择驱动并配置连接池。
// 不带 scheme 的值按 SQLite 文件路径处理。
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg.URL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if dialector.Name() == "sqlite" {
		// SQLite 单文件写入，限制为单连接避免 database is locked
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Infof("database connected successfully, driver=%s", dialector.Name())
	return db, nil
}

func dialectorFor(url string) (gorm.Dialector, error) {
	switch {
	case url == "":
		return nil, fmt.Errorf("database url is empty")
	case strings.HasPrefix(url, "mysql://"):
		return mysql.Open(mysqlDSN(strings.TrimPrefix(url, "mysql://"))), nil
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return postgres.Open(url), nil
	case strings.Contains(url, "://") && !strings.HasPrefix(url, "sqlite://"):
		return nil, fmt.Errorf("unsupported database url scheme: %s", url)
	}

	path := SQLitePath(url)
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, os.ModePerm); err != nil {
				return nil, fmt.Errorf("failed to create sqlite directory %s: %w", dir, err)
			}
		}
	}
	return sqlite.Open(path), nil
}

// SQLitePath 兼容 SQLAlchemy 风格：sqlite:///rel.db 为相对路径，sqlite:////abs.db 为绝对路径。
func SQLitePath(url string) string {
	if rest, ok := strings.CutPrefix(url, "sqlite:///"); ok {
		return rest
	}
	return strings.TrimPrefix(url, "sqlite://")
}

// mysqlDSN 确保 time.Time 字段能被正确扫描
func mysqlDSN(dsn string) string {
	if strings.Contains(dsn, "parseTime=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&parseTime=true"
	}
	return dsn + "?parseTime=true"
}
