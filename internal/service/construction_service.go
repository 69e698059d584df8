package service

import (
	"context"
	"fmt"
	"time"

	"github.com/folio-next/internal/constants"
	"github.com/folio-next/internal/logger"
	"github.com/folio-next/internal/metrics"
	"github.com/folio-next/internal/models"
	"github.com/folio-next/internal/repository"
)

// ConstructionOptions 施工模式参数
type ConstructionOptions struct {
	Window                time.Duration
	MissingDeadlinePolicy string
}

// ConstructionService 施工模式状态存储，读取时惰性过期
type ConstructionService struct {
	repo     repository.ProfileSettingRepository
	window   time.Duration
	policy   string
	metrics  *metrics.Metrics
	now      func() time.Time
	onChange func(ctx context.Context)
}

// NewConstructionService 创建施工模式服务
func NewConstructionService(repo repository.ProfileSettingRepository, opts ConstructionOptions, m *metrics.Metrics) *ConstructionService {
	window := opts.Window
	if window <= 0 {
		window = constants.ConstructionWindow
	}
	policy := opts.MissingDeadlinePolicy
	if policy != constants.MissingDeadlineActive {
		policy = constants.MissingDeadlineInactive
	}
	return &ConstructionService{
		repo:    repo,
		window:  window,
		policy:  policy,
		metrics: m,
		now:     time.Now,
	}
}

// WithClock 替换时钟
func (s *ConstructionService) WithClock(now func() time.Time) *ConstructionService {
	if now != nil {
		s.now = now
	}
	return s
}

// OnChange 注册状态变化回调（用于失效公开资料缓存）
func (s *ConstructionService) OnChange(fn func(ctx context.Context)) {
	s.onChange = fn
}

// Window 心跳延长窗口
func (s *ConstructionService) Window() time.Duration {
	return s.window
}

// GetEffectiveState 读取有效状态，过期记录会被纠正并写回
func (s *ConstructionService) GetEffectiveState(ctx context.Context) (models.ConstructionState, error) {
	record, err := s.repo.Get(ctx)
	if err != nil {
		return models.ConstructionState{}, fmt.Errorf("%w: load construction state: %v", ErrPersistence, err)
	}
	if record == nil {
		return models.ConstructionState{}, nil
	}
	state := record.Construction()
	if !state.IsActive {
		return state, nil
	}

	if state.ActiveUntil == nil {
		logger.Warnw("construction_state_missing_deadline", "policy", s.policy)
		if s.policy == constants.MissingDeadlineActive {
			return state, nil
		}
		return s.correct(ctx, "missing_deadline")
	}

	if !s.now().Before(*state.ActiveUntil) {
		logger.Infow("construction_state_expired_corrected", "active_until", state.ActiveUntil.UTC())
		return s.correct(ctx, "expired")
	}
	return state, nil
}

// Heartbeat 将截止时间设为 now + window，不修改启用标记；后写覆盖先写
func (s *ConstructionService) Heartbeat(ctx context.Context) (time.Time, error) {
	until := s.now().Add(s.window)
	err := s.repo.ExtendConstruction(ctx, until)
	s.metrics.ObserveHeartbeat(err)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: extend construction: %v", ErrPersistence, err)
	}
	s.changed(ctx)
	return until, nil
}

// Activate 进入管理后台时开启施工模式
func (s *ConstructionService) Activate(ctx context.Context) (models.ConstructionState, error) {
	until := s.now().Add(s.window)
	state := models.ConstructionState{IsActive: true, ActiveUntil: &until}
	if err := s.repo.SaveConstruction(ctx, state); err != nil {
		return models.ConstructionState{}, fmt.Errorf("%w: activate construction: %v", ErrPersistence, err)
	}
	s.changed(ctx)
	return state, nil
}

// Deactivate 关闭施工模式并清空截止时间
func (s *ConstructionService) Deactivate(ctx context.Context) error {
	if err := s.repo.SaveConstruction(ctx, models.ConstructionState{}); err != nil {
		return fmt.Errorf("%w: deactivate construction: %v", ErrPersistence, err)
	}
	s.changed(ctx)
	return nil
}

func (s *ConstructionService) correct(ctx context.Context, reason string) (models.ConstructionState, error) {
	inactive := models.ConstructionState{}
	if err := s.repo.SaveConstruction(ctx, inactive); err != nil {
		// 纠正失败不影响本次读取结果，下次读取会再次纠正
		logger.Warnw("construction_state_correct_failed", "reason", reason, "error", err)
		return inactive, nil
	}
	s.metrics.ObserveSelfHeal()
	s.changed(ctx)
	return inactive, nil
}

func (s *ConstructionService) changed(ctx context.Context) {
	if s.onChange != nil {
		s.onChange(ctx)
	}
}
