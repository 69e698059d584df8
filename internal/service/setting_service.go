package service

import (
	"context"
	"fmt"

	"github.com/folio-next/internal/constants"
	"github.com/folio-next/internal/models"
	"github.com/folio-next/internal/repository"
)

// SettingService 设置业务服务
type SettingService struct {
	repo     repository.SettingRepository
	onChange func(ctx context.Context)
}

// NewSettingService 创建设置服务
func NewSettingService(repo repository.SettingRepository) *SettingService {
	return &SettingService{repo: repo}
}

// OnChange 注册设置变化回调
func (s *SettingService) OnChange(fn func(ctx context.Context)) {
	s.onChange = fn
}

// GetByKey 获取设置
func (s *SettingService) GetByKey(ctx context.Context, key string) (models.JSON, error) {
	setting, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: load setting %s: %v", ErrPersistence, key, err)
	}
	if setting == nil {
		return nil, nil
	}
	return setting.ValueJSON, nil
}

// Update 设置值（按键归一化）
func (s *SettingService) Update(ctx context.Context, key string, value map[string]interface{}) (models.JSON, error) {
	normalized := normalizeSettingValueByKey(key, value)

	setting, err := s.repo.Upsert(ctx, key, normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: save setting %s: %v", ErrPersistence, key, err)
	}
	if s.onChange != nil {
		s.onChange(ctx)
	}
	return setting.ValueJSON, nil
}

// GetSiteProfile 获取站点资料（未配置时返回空白默认值）
func (s *SettingService) GetSiteProfile(ctx context.Context) (models.JSON, error) {
	value, err := s.GetByKey(ctx, constants.SettingKeySiteProfile)
	if err != nil {
		return nil, err
	}
	return normalizeSiteProfile(value), nil
}

// UpdateSiteProfile 更新站点资料
func (s *SettingService) UpdateSiteProfile(ctx context.Context, value map[string]interface{}) (models.JSON, error) {
	if value == nil {
		return nil, ErrValidation
	}
	return s.Update(ctx, constants.SettingKeySiteProfile, value)
}
