package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SQLiteConfig 本地开发与测试使用的 SQLite 配置
type SQLiteConfig struct {
	ServiceName string
	Path        string // 文件路径，":memory:" 表示内存库
	LogLevel    string
	Logger      *zap.Logger
}

// InitSQLite 初始化 SQLite 连接（纯 Go 驱动，无需 CGO）
func InitSQLite(config *SQLiteConfig) (*gorm.DB, error) {
	if config == nil {
		return nil, fmt.Errorf("配置不能为空")
	}
	if config.Path == "" {
		config.Path = "data/docvault.db"
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	if config.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(config.Path), 0o755); err != nil {
			return nil, fmt.Errorf("创建数据目录失败: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(config.Path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"), gormConfig(config.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取数据库实例失败: %w", err)
	}
	// SQLite 只允许单写者，内存库还要求连接不被回收
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	config.Logger.Info("数据库连接成功",
		zap.String("service", config.ServiceName),
		zap.String("driver", "sqlite"),
		zap.String("path", config.Path),
	)
	return db, nil
}
