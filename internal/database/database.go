package database

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/j-marthe/sistema-gestion-archivos-backend/config"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/model"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/storage"
	"github.com/j-marthe/sistema-gestion-archivos-backend/packages/database"
)

const serviceName = "gestion-archivos"

// InitDatabase 按 database.driver 打开关系库并迁移表结构
func InitDatabase(conf *config.AppConfig, logger *zap.Logger) (*gorm.DB, error) {
	db, err := Open(conf, logger)
	if err != nil {
		return nil, err
	}

	// 初始化数据库表
	if err := model.InitTable(db); err != nil {
		return nil, fmt.Errorf("初始化数据表失败: %w", err)
	}
	return db, nil
}

// Open 只建立连接，不迁移
func Open(conf *config.AppConfig, logger *zap.Logger) (*gorm.DB, error) {
	databaseConf := conf.Database

	logLevel := databaseConf.LogLevel
	if logLevel == "" {
		logLevel = "silent"
	}

	switch databaseConf.Driver {
	case "postgres":
		return database.InitPostgres(&database.PostgresConfig{
			ServiceName:     serviceName,
			Username:        databaseConf.Username,
			Password:        databaseConf.Password,
			Host:            databaseConf.Host,
			Port:            databaseConf.Port,
			Database:        databaseConf.Database,
			SSLMode:         databaseConf.SSLMode,
			LogLevel:        logLevel,
			MaxIdleConns:    databaseConf.MaxIdleConns,
			MaxOpenConns:    databaseConf.MaxOpenConns,
			ConnMaxLifetime: time.Duration(databaseConf.MaxLifetime) * time.Second,
			Logger:          logger,
		})
	case "sqlite":
		return database.InitSQLite(&database.SQLiteConfig{
			ServiceName: serviceName,
			Path:        databaseConf.Path,
			LogLevel:    logLevel,
			Logger:      logger,
		})
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", databaseConf.Driver)
	}
}

// InitRedis redis.enabled 为 false 时返回 nil，调用方据此关闭刷新令牌
func InitRedis(conf *config.AppConfig, logger *zap.Logger) (*database.RedisClient, error) {
	redisConf := conf.Redis
	if !redisConf.Enabled {
		logger.Warn("未启用 Redis，刷新令牌功能不可用")
		return nil, nil
	}

	return database.InitRedis(&database.RedisConfig{
		ServiceName: serviceName,
		Host:        redisConf.Host,
		Port:        redisConf.Port,
		Password:    redisConf.Password,
		DB:          redisConf.DB,
		PoolSize:    redisConf.PoolSize,
		Logger:      logger,
	})
}

// InitStorage 创建对象存储，外层依次包装重试与指标
func InitStorage(ctx context.Context, conf *config.AppConfig, logger *zap.Logger) (storage.Storage, error) {
	storageConf := conf.Storage

	var (
		backend storage.Storage
		err     error
	)
	switch storageConf.Driver {
	case "minio":
		backend, err = storage.NewMinioStorage(ctx, storage.MinioConfig{
			Endpoint:  storageConf.Endpoint,
			AccessKey: storageConf.AccessKey,
			SecretKey: storageConf.SecretKey,
			Bucket:    storageConf.Bucket,
			Region:    storageConf.Region,
			UseSSL:    storageConf.UseSSL,
		}, logger)
	case "local":
		backend, err = storage.NewLocalStorage(storageConf.LocalRoot)
	default:
		err = fmt.Errorf("不支持的存储驱动: %s", storageConf.Driver)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("对象存储已就绪", zap.String("driver", storageConf.Driver))

	retrying := storage.NewRetrying(backend, storage.RetryPolicy{
		Attempts: storageConf.RetryAttempts,
		Delay:    time.Duration(storageConf.RetryDelay) * time.Millisecond,
	}, logger)
	return storage.NewInstrumented(retrying), nil
}
