package config

import "github.com/j-marthe/sistema-gestion-archivos-backend/packages/logger"

// Default 默认配置，配置文件和环境变量在此基础上覆盖
func Default() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			Mode:         "release",
			ReadTimeout:  30,
			WriteTimeout: 120,
			MaxUploadMB:  100,
		},
		Database: DatabaseConfig{
			Driver:       "sqlite",
			Host:         "localhost",
			Port:         5432,
			Database:     "docvault",
			Path:         "data/docvault.db",
			LogLevel:     "warn",
			MaxOpenConns: 100,
			MaxIdleConns: 10,
			MaxLifetime:  3600,
		},
		Redis: RedisConfig{
			Enabled:  false,
			Host:     "localhost",
			Port:     6379,
			PoolSize: 10,
		},
		Log: logger.Config{
			Level:      "info",
			Format:     "json",
			Output:     "stdout",
			Path:       "logs/docvault.log",
			MaxSize:    100,
			MaxBackups: 5,
			MaxAge:     30,
		},
		JWT: JWTConfig{
			ExpireTime:        8,
			RefreshExpireTime: 24 * 7,
		},
		Storage: StorageConfig{
			Driver:        "local",
			Endpoint:      "localhost:9000",
			Bucket:        "documentos",
			LocalRoot:     "data/blobs",
			RetryAttempts: 6,
			RetryDelay:    2000,
		},
	}
}
