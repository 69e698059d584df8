package queue

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/folio-next/internal/config"
	"github.com/folio-next/internal/constants"
	"github.com/folio-next/internal/logger"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 默认队列名称
	DefaultQueue = constants.QueueDefault

	cleanupMaxRetry = 3
	cleanupTimeout  = 30 * time.Second
)

// AssetCleaner 调度旧文件清理的接口
type AssetCleaner interface {
	EnqueueAssetCleanup(payload AssetCleanupPayload, delay time.Duration) error
}

type enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

// Client 队列客户端封装，未启用时所有推送均为空操作
type Client struct {
	client       enqueuer
	defaultQueue string
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{defaultQueue: DefaultQueue}, nil
	}
	return &Client{
		client:       asynq.NewClient(buildRedisOpt(cfg)),
		defaultQueue: DefaultQueue,
	}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// EnqueueAssetCleanup 推送旧文件清理任务。同一文件只会排队一次，重复推送视为成功。
func (c *Client) EnqueueAssetCleanup(payload AssetCleanupPayload, delay time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewAssetCleanupTask(payload)
	if err != nil {
		return err
	}
	if delay < 0 {
		delay = 0
	}
	_, err = c.client.Enqueue(task,
		asynq.Queue(c.defaultQueue),
		asynq.TaskID(cleanupTaskID(payload.URL)),
		asynq.ProcessIn(delay),
		asynq.MaxRetry(cleanupMaxRetry),
		asynq.Timeout(cleanupTimeout),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

func cleanupTaskID(url string) string {
	sum := sha1.Sum([]byte(strings.TrimSpace(url)))
	return TaskAssetCleanup + ":" + hex.EncodeToString(sum[:])
}

// BuildServerConfig 生成队列服务配置，日志与失败回调接入 zap
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	concurrency := 2
	if cfg != nil && cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}
	queues := map[string]int{DefaultQueue: 1}
	if cfg != nil && len(cfg.Queues) > 0 {
		queues = cfg.Queues
	}
	return buildRedisOpt(cfg), asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
		Logger:      logger.S(),
		LogLevel:    asynq.WarnLevel,
		ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
			logger.Warnw("queue_task_failed", "type", task.Type(), "error", err)
		}),
	}
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{Addr: "127.0.0.1:6379"}
	if cfg == nil {
		return opt
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	opt.Addr = fmt.Sprintf("%s:%d", host, port)
	opt.Password = cfg.Password
	opt.DB = cfg.DB
	return opt
}
