// Package logger 基于 zap 的结构化日志，文件输出由 lumberjack 负责轮转
package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config 日志配置
type Config struct {
	Level      string `koanf:"level" yaml:"level"`             // debug, info, warn, error
	Format     string `koanf:"format" yaml:"format"`           // json, console
	Output     string `koanf:"output" yaml:"output"`           // stdout, file, both
	Path       string `koanf:"path" yaml:"path"`               // 日志文件路径
	MaxSize    int    `koanf:"max_size" yaml:"max_size"`       // 单个文件大小上限（MB）
	MaxBackups int    `koanf:"max_backups" yaml:"max_backups"` // 保留的旧文件数量
	MaxAge     int    `koanf:"max_age" yaml:"max_age"`         // 保留天数
	Compress   bool   `koanf:"compress" yaml:"compress"`
}

// New 根据配置创建 zap.Logger
func New(service string, cfg Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zapcore.InfoLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch cfg.Format {
	case "console", "text":
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	default:
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	sink, err := buildSink(cfg)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(encoder, sink, zap.NewAtomicLevelAt(level))
	return zap.New(core, zap.AddCaller()).With(zap.String("service", service)), nil
}

func buildSink(cfg Config) (zapcore.WriteSyncer, error) {
	var writers []zapcore.WriteSyncer

	if cfg.Output == "" || cfg.Output == "stdout" || cfg.Output == "both" {
		writers = append(writers, zapcore.AddSync(os.Stdout))
	}

	if cfg.Output == "file" || cfg.Output == "both" {
		if cfg.Path == "" {
			return nil, fmt.Errorf("日志输出为文件时必须配置 log.path")
		}
		writers = append(writers, zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    withDefault(cfg.MaxSize, 100),
			MaxBackups: withDefault(cfg.MaxBackups, 5),
			MaxAge:     withDefault(cfg.MaxAge, 30),
			Compress:   cfg.Compress,
		}))
	}

	if len(writers) == 0 {
		return nil, fmt.Errorf("未知的日志输出: %s", cfg.Output)
	}
	return zapcore.NewMultiWriteSyncer(writers...), nil
}

func withDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
