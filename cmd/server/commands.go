package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/j-marthe/sistema-gestion-archivos-backend/config"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/database"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/route"
	"github.com/j-marthe/sistema-gestion-archivos-backend/packages/logger"
)

const serviceName = "gestion-archivos"

var configPath string

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "server",
		Short:         "文档管理后端",
		SilenceErrors: true,
		SilenceUsage:  true,
		// 不带子命令时直接启动服务
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "配置文件路径，为空时只读取环境变量")
	cmd.Version = fmt.Sprintf("%s.%s", version, commit)

	return cmd
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 服务",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "迁移表结构并预置角色",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()

			if _, err := database.InitDatabase(conf, log); err != nil {
				return err
			}
			log.Info("数据库迁移完成")
			return nil
		},
	}
}

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "配置文件工具",
	}
	cmd.AddCommand(newConfigGenerateCommand())
	return cmd
}

func newConfigGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "输出默认配置",
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			overwrite, _ := cmd.Flags().GetBool("overwrite")

			data, err := yaml.Marshal(config.Default())
			if err != nil {
				return fmt.Errorf("序列化配置失败: %w", err)
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			if _, err := os.Stat(output); err == nil && !overwrite {
				return fmt.Errorf("%s 已存在，使用 --overwrite 覆盖", output)
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("写入配置文件失败: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已生成 %s\n", output)
			return nil
		},
	}

	cmd.Flags().String("output", "-", "输出文件，- 表示标准输出")
	cmd.Flags().Bool("overwrite", false, "覆盖已存在的文件")

	return cmd
}

func bootstrap() (*config.AppConfig, *zap.Logger, error) {
	if err := config.Load(configPath); err != nil {
		return nil, nil, err
	}

	log, err := logger.New(serviceName, config.Conf.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	return config.Conf, log, nil
}

func serve(ctx context.Context) error {
	conf, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDatabase(conf, log)
	if err != nil {
		return err
	}
	redisClient, err := database.InitRedis(conf, log)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}
	store, err := database.InitStorage(ctx, conf, log)
	if err != nil {
		return err
	}

	r := route.SetupRouter(route.Dependencies{
		Conf:    conf,
		DB:      db,
		Redis:   redisClient,
		Storage: store,
		Logger:  log,
	})

	srv := &http.Server{
		Addr:         conf.Server.Addr(),
		Handler:      r,
		ReadTimeout:  time.Duration(conf.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(conf.Server.WriteTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("服务启动", zap.String("addr", srv.Addr), zap.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("正在关闭服务")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
