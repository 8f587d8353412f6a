// config/config.go - 配置管理文件
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix 环境变量前缀，APP_STORAGE_DRIVER 对应 storage.driver，APP_JWT_EXPIRE_TIME 对应 jwt.expire_time
const EnvPrefix = "APP_"

var (
	Conf *AppConfig
	once sync.Once
)

// Parse 读取配置文件与环境变量，不修改全局配置
// configPath 为空时只使用默认值与环境变量
func Parse(configPath string) (*AppConfig, error) {
	ko := koanf.New(".")

	if configPath != "" {
		if err := ko.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("加载配置文件失败: %w", err)
		}
	}

	// 环境变量覆盖配置文件
	if err := ko.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("加载环境变量失败: %w", err)
	}

	conf := Default()
	if err := ko.Unmarshal("", conf); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// envKey APP_STORAGE_ACCESS_KEY -> storage.access_key
// 顶层分组名都不含下划线，只替换第一个
func envKey(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
}

// Load 加载配置文件
func Load(configPath string) error {
	var err error
	once.Do(func() {
		// 首先加载 .env 文件到环境变量
		if envErr := godotenv.Load(); envErr != nil {
			log.Printf("警告: 无法加载 .env 文件: %v", envErr)
		}

		Conf, err = Parse(configPath)
	})

	return err
}

// Validate 检查启动所必需的配置项
func (c *AppConfig) Validate() error {
	var errs []error

	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt.secret 不能为空"))
	}
	if c.JWT.ExpireTime <= 0 {
		errs = append(errs, errors.New("jwt.expire_time 必须大于 0"))
	}

	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("不支持的数据库驱动: %s", c.Database.Driver))
	}

	switch c.Storage.Driver {
	case "minio":
		if c.Storage.Endpoint == "" || c.Storage.Bucket == "" {
			errs = append(errs, errors.New("minio 存储需要 storage.endpoint 与 storage.bucket"))
		}
	case "local":
		if c.Storage.LocalRoot == "" {
			errs = append(errs, errors.New("本地存储需要 storage.local_root"))
		}
	default:
		errs = append(errs, fmt.Errorf("不支持的存储驱动: %s", c.Storage.Driver))
	}

	return errors.Join(errs...)
}
