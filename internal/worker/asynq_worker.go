package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/folio-next/internal/logger"
	"github.com/folio-next/internal/provider"
	"github.com/folio-next/internal/queue"
	"github.com/folio-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskAssetCleanup, c.handleAssetCleanup)
}

func (c *Consumer) handleAssetCleanup(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_asset_cleanup_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseAssetCleanupPayload(task)
	if err != nil {
		logger.Warnw("worker_asset_cleanup_unmarshal_failed", "error", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if payload.URL == "" {
		logger.Debugw("worker_asset_cleanup_skip_empty_url", "scene", payload.Scene)
		return nil
	}
	if c.UploadService == nil {
		logger.Warnw("worker_asset_cleanup_skip_upload_service_nil", "url", payload.URL)
		return nil
	}

	err = c.UploadService.RemoveFile(payload.URL)
	c.Metrics.ObserveAssetCleanup(err)
	if err != nil {
		if errors.Is(err, service.ErrInvalidUploadURL) {
			// 非法路径重试也无法成功
			logger.Warnw("worker_asset_cleanup_invalid_url", "url", payload.URL, "scene", payload.Scene, "error", err)
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		logger.Warnw("worker_asset_cleanup_failed", "url", payload.URL, "scene", payload.Scene, "error", err)
		return err
	}
	logger.Infow("worker_asset_cleanup_done", "url", payload.URL, "scene", payload.Scene)
	return nil
}
