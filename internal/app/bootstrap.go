package app

import (
	"context"
	"errors"

	"github.com/folio-next/internal/config"
	"github.com/folio-next/internal/logger"
	"github.com/folio-next/internal/provider"
	"github.com/folio-next/internal/router"
	"github.com/folio-next/internal/worker"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, container *provider.Container, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if container == nil {
		return nil, errors.New("container is nil")
	}

	var services []Service

	// 初始化 HTTP 服务
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		httpService := NewHTTPService(addr, engine)
		services = append(services, httpService)
	}

	// 初始化 Worker 服务（all 模式下队列未启用时跳过）
	if mode == ModeWorker || (mode == ModeAll && cfg.Queue.Enabled) {
		consumer := worker.NewConsumer(container)
		workerService, err := worker.NewService(&cfg.Queue, consumer)
		if err != nil {
			return nil, err
		}
		services = append(services, workerService)
	}

	// 如果没有服务被启动（例如模式错误或配置导致都没起），应该报错或至少打日志
	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	container := provider.NewContainer(opts.Config)
	defer container.Close()
	bootstrapDefaultAdmin(container, opts)

	runner, err := BuildRunner(opts.Config, container, opts.Mode)
	if err != nil {
		return err
	}

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	opts.Logger.Infow("app_start", "addr", addr, "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}

func bootstrapDefaultAdmin(container *provider.Container, opts Options) {
	if opts.DefaultAdmin == nil {
		return
	}
	created, err := container.AuthService.InitDefaultAdmin(context.Background(), opts.DefaultAdmin.Username, opts.DefaultAdmin.Password)
	if err != nil {
		logger.Warnw("default_admin_init_failed", "username", opts.DefaultAdmin.Username, "error", err)
		return
	}
	if created {
		logger.Infow("default_admin_created", "username", opts.DefaultAdmin.Username)
	}
}
