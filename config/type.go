package config

import (
	"fmt"
	"time"

	"github.com/j-marthe/sistema-gestion-archivos-backend/packages/logger"
)

// AppConfig 应用配置结构
type AppConfig struct {
	Server   ServerConfig   `koanf:"server" yaml:"server"`
	Database DatabaseConfig `koanf:"database" yaml:"database"`
	Redis    RedisConfig    `koanf:"redis" yaml:"redis"`
	Log      logger.Config  `koanf:"log" yaml:"log"`
	JWT      JWTConfig      `koanf:"jwt" yaml:"jwt"`
	Storage  StorageConfig  `koanf:"storage" yaml:"storage"`
	CORS     CORSConfig     `koanf:"cors" yaml:"cors"`
}

type ServerConfig struct {
	Host         string `koanf:"host" yaml:"host"`
	Port         int    `koanf:"port" yaml:"port"`
	Mode         string `koanf:"mode" yaml:"mode"`                   // debug, release
	ReadTimeout  int    `koanf:"read_timeout" yaml:"read_timeout"`   // 秒
	WriteTimeout int    `koanf:"write_timeout" yaml:"write_timeout"` // 秒
	MaxUploadMB  int    `koanf:"max_upload_mb" yaml:"max_upload_mb"` // 单个上传文件上限
}

// Addr 监听地址
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Driver       string `koanf:"driver" yaml:"driver"` // postgres, sqlite
	Host         string `koanf:"host" yaml:"host"`
	Port         int    `koanf:"port" yaml:"port"`
	Username     string `koanf:"username" yaml:"username"`
	Password     string `koanf:"password" yaml:"password"`
	Database     string `koanf:"database" yaml:"database"`
	SSLMode      bool   `koanf:"sslmode" yaml:"sslmode"`
	Path         string `koanf:"path" yaml:"path"`           // sqlite 文件路径
	LogLevel     string `koanf:"log_level" yaml:"log_level"` // 数据库日志级别
	MaxOpenConns int    `koanf:"max_open_conns" yaml:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns" yaml:"max_idle_conns"`
	MaxLifetime  int    `koanf:"max_lifetime" yaml:"max_lifetime"` // 秒
}

type RedisConfig struct {
	Enabled  bool   `koanf:"enabled" yaml:"enabled"`
	Host     string `koanf:"host" yaml:"host"`
	Port     int    `koanf:"port" yaml:"port"`
	Password string `koanf:"password" yaml:"password"`
	DB       int    `koanf:"db" yaml:"db"`
	PoolSize int    `koanf:"pool_size" yaml:"pool_size"`
}

type JWTConfig struct {
	Secret            string `koanf:"secret" yaml:"secret"`
	ExpireTime        int    `koanf:"expire_time" yaml:"expire_time"`                 // 小时
	RefreshExpireTime int    `koanf:"refresh_expire_time" yaml:"refresh_expire_time"` // 小时
}

// AccessTTL 访问令牌有效期
func (j JWTConfig) AccessTTL() time.Duration {
	return time.Duration(j.ExpireTime) * time.Hour
}

// RefreshTTL 刷新令牌有效期
func (j JWTConfig) RefreshTTL() time.Duration {
	return time.Duration(j.RefreshExpireTime) * time.Hour
}

type StorageConfig struct {
	Driver        string `koanf:"driver" yaml:"driver"` // minio, local
	Endpoint      string `koanf:"endpoint" yaml:"endpoint"`
	AccessKey     string `koanf:"access_key" yaml:"access_key"`
	SecretKey     string `koanf:"secret_key" yaml:"secret_key"`
	Bucket        string `koanf:"bucket" yaml:"bucket"`
	Region        string `koanf:"region" yaml:"region"`
	UseSSL        bool   `koanf:"use_ssl" yaml:"use_ssl"`
	LocalRoot     string `koanf:"local_root" yaml:"local_root"`
	RetryAttempts int    `koanf:"retry_attempts" yaml:"retry_attempts"`
	RetryDelay    int    `koanf:"retry_delay" yaml:"retry_delay"` // 毫秒
}

type CORSConfig struct {
	AllowOrigins []string `koanf:"allow_origins" yaml:"allow_origins"`
}
