package service

import (
	"context"

	"github.com/folio-next/internal/logger"
	"github.com/folio-next/internal/metrics"
)

// Deactivator 可关闭施工模式的存储
type Deactivator interface {
	Deactivate(ctx context.Context) error
}

// SessionService 会话终止：Cookie 由调用方清除，这里负责尽力关闭施工模式
type SessionService struct {
	construction Deactivator
	metrics      *metrics.Metrics
}

// NewSessionService 创建会话服务
func NewSessionService(construction Deactivator, m *metrics.Metrics) *SessionService {
	return &SessionService{construction: construction, metrics: m}
}

// Terminate 终止会话。关闭施工模式失败只记录日志，永不返回错误，可重复调用
func (s *SessionService) Terminate(ctx context.Context) {
	if s == nil || s.construction == nil {
		return
	}
	err := s.construction.Deactivate(ctx)
	s.metrics.ObserveTermination(err)
	if err != nil {
		logger.Warnw("session_terminate_deactivate_failed", "error", err)
	}
}
