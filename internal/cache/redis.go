package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/folio-next/internal/config"
	"github.com/folio-next/internal/logger"

	"github.com/redis/go-redis/v9"
)

const (
	defaultPrefix = "folio"
	pingTimeout   = 2 * time.Second
)

// store 带前缀的 JSON 缓存，client 为空时所有操作都是空操作
type store struct {
	client *redis.Client
	prefix string
}

var (
	mu      sync.RWMutex
	current = &store{prefix: defaultPrefix}
)

func active() *store {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// InitRedis 初始化全局 Redis 客户端。连通性检查失败只记录日志，
// 缓存与限流在运行期按调用结果降级。
func InitRedis(cfg *config.RedisConfig) error {
	next := &store{prefix: defaultPrefix}
	if cfg != nil && cfg.Enabled {
		host := strings.TrimSpace(cfg.Host)
		if host == "" {
			host = "127.0.0.1"
		}
		port := cfg.Port
		if port <= 0 {
			port = 6379
		}
		if prefix := strings.TrimSpace(cfg.Prefix); prefix != "" {
			next.prefix = prefix
		}
		next.client = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", host, port),
			Password: cfg.Password,
			DB:       cfg.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()
		if err := next.client.Ping(ctx).Err(); err != nil {
			logger.Warnw("cache_redis_ping_failed", "addr", next.client.Options().Addr, "error", err)
		}
	}

	mu.Lock()
	previous := current
	current = next
	mu.Unlock()
	if previous.client != nil {
		_ = previous.client.Close()
	}
	return nil
}

// Close 关闭 Redis 客户端
func Close() error {
	mu.Lock()
	previous := current
	current = &store{prefix: previous.prefix}
	mu.Unlock()
	if previous.client == nil {
		return nil
	}
	return previous.client.Close()
}

// Enabled 判断缓存是否启用
func Enabled() bool {
	return active().client != nil
}

// Client 获取 Redis 客户端，未启用时返回 nil
func Client() *redis.Client {
	return active().client
}

// GetJSON 读取 JSON 缓存，返回是否命中
func GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	s := active()
	if s.client == nil {
		return false, nil
	}
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode cache %s: %w", key, err)
	}
	return true, nil
}

// SetJSON 写入 JSON 缓存
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	s := active()
	if s.client == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(key), payload, ttl).Err()
}

// Del 删除缓存
func Del(ctx context.Context, key string) error {
	s := active()
	if s.client == nil {
		return nil
	}
	return s.client.Del(ctx, s.key(key)).Err()
}

func (s *store) key(key string) string {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return s.prefix
	}
	return s.prefix + ":" + trimmed
}
