package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/folio-next/internal/cache"
	"github.com/folio-next/internal/constants"
	"github.com/folio-next/internal/logger"
	"github.com/folio-next/internal/models"
	"github.com/folio-next/internal/queue"
	"github.com/folio-next/internal/repository"
)

// 旧文件的保留时间不短于公开资料缓存
const assetCleanupDelay = constants.PublicProfileCacheTTL

// PublicProfile 公开资料读模型
type PublicProfile struct {
	UnderConstruction bool                         `json:"under_construction"`
	ActiveUntil       *time.Time                   `json:"active_until,omitempty"`
	Content           *cache.PublicProfileSnapshot `json:"content,omitempty"`
}

// ProfileService 站点资料服务
type ProfileService struct {
	repo         repository.ProfileSettingRepository
	settings     *SettingService
	construction *ConstructionService
	uploads      *UploadService
	cleaner      queue.AssetCleaner
}

// NewProfileService 创建站点资料服务，cleaner 为空时同步删除旧文件
func NewProfileService(
	repo repository.ProfileSettingRepository,
	settings *SettingService,
	construction *ConstructionService,
	uploads *UploadService,
	cleaner queue.AssetCleaner,
) *ProfileService {
	return &ProfileService{
		repo:         repo,
		settings:     settings,
		construction: construction,
		uploads:      uploads,
		cleaner:      cleaner,
	}
}

// GetPublic 施工模式生效时只返回施工状态，否则返回资料内容
func (s *ProfileService) GetPublic(ctx context.Context) (*PublicProfile, error) {
	state, err := s.construction.GetEffectiveState(ctx)
	if err != nil {
		return nil, err
	}
	if state.IsActive {
		return &PublicProfile{UnderConstruction: true, ActiveUntil: state.ActiveUntil}, nil
	}

	snapshot, hit, err := cache.GetPublicProfile(ctx)
	if err != nil {
		logger.Warnw("public_profile_cache_get_failed", "error", err)
	}
	if hit && snapshot != nil {
		return &PublicProfile{Content: snapshot}, nil
	}

	snapshot, err = s.buildSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if err := cache.SetPublicProfile(ctx, snapshot); err != nil {
		logger.Warnw("public_profile_cache_set_failed", "error", err)
	}
	return &PublicProfile{Content: snapshot}, nil
}

// GetAdminSnapshot 管理端读取完整资料（不受施工模式影响）
func (s *ProfileService) GetAdminSnapshot(ctx context.Context) (*cache.PublicProfileSnapshot, error) {
	return s.buildSnapshot(ctx)
}

// UpdateProfileImage 保存头像并调度旧文件清理
func (s *ProfileService) UpdateProfileImage(ctx context.Context, file *multipart.FileHeader) (*StoredFile, error) {
	current, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	stored, err := s.uploads.SaveFile(file, constants.UploadSceneProfile)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveProfileImage(ctx, stored.URL); err != nil {
		s.discard(stored.URL, constants.UploadSceneProfile)
		return nil, fmt.Errorf("%w: save profile image: %v", ErrPersistence, err)
	}
	s.InvalidatePublicCache(ctx)
	if current != nil {
		s.scheduleCleanup(current.ProfileImageURL, constants.UploadSceneProfile)
	}
	return stored, nil
}

// UpdateCV 保存简历并调度旧文件清理
func (s *ProfileService) UpdateCV(ctx context.Context, file *multipart.FileHeader) (*StoredFile, error) {
	current, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	stored, err := s.uploads.SaveFile(file, constants.UploadSceneCV)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveCV(ctx, stored.URL, stored.OriginalName); err != nil {
		s.discard(stored.URL, constants.UploadSceneCV)
		return nil, fmt.Errorf("%w: save cv: %v", ErrPersistence, err)
	}
	s.InvalidatePublicCache(ctx)
	if current != nil {
		s.scheduleCleanup(current.CVFileURL, constants.UploadSceneCV)
	}
	return stored, nil
}

// RemoveCV 清除简历
func (s *ProfileService) RemoveCV(ctx context.Context) error {
	current, err := s.load(ctx)
	if err != nil {
		return err
	}
	if current == nil || current.CVFileURL == "" {
		return nil
	}
	if err := s.repo.SaveCV(ctx, "", ""); err != nil {
		return fmt.Errorf("%w: clear cv: %v", ErrPersistence, err)
	}
	s.InvalidatePublicCache(ctx)
	s.scheduleCleanup(current.CVFileURL, constants.UploadSceneCV)
	return nil
}

// InvalidatePublicCache 失效公开资料缓存
func (s *ProfileService) InvalidatePublicCache(ctx context.Context) {
	if err := cache.DelPublicProfile(ctx); err != nil {
		logger.Warnw("public_profile_cache_invalidate_failed", "error", err)
	}
}

func (s *ProfileService) buildSnapshot(ctx context.Context) (*cache.PublicProfileSnapshot, error) {
	site, err := s.settings.GetSiteProfile(ctx)
	if err != nil {
		return nil, err
	}
	record, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	snapshot := &cache.PublicProfileSnapshot{Site: site}
	if record != nil {
		snapshot.ProfileImageURL = record.ProfileImageURL
		snapshot.CVFileURL = record.CVFileURL
		snapshot.CVFileName = record.CVFileName
	}
	return snapshot, nil
}

func (s *ProfileService) load(ctx context.Context) (*models.ProfileSettings, error) {
	record, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load profile settings: %v", ErrPersistence, err)
	}
	return record, nil
}

func (s *ProfileService) scheduleCleanup(url, scene string) {
	if url == "" {
		return
	}
	if s.cleaner == nil {
		s.discard(url, scene)
		return
	}
	payload := queue.AssetCleanupPayload{URL: url, Scene: scene}
	if err := s.cleaner.EnqueueAssetCleanup(payload, assetCleanupDelay); err != nil {
		logger.Warnw("asset_cleanup_enqueue_failed", "url", url, "scene", scene, "error", err)
	}
}

func (s *ProfileService) discard(url, scene string) {
	if err := s.uploads.RemoveFile(url); err != nil {
		logger.Warnw("asset_remove_failed", "url", url, "scene", scene, "error", err)
	}
}
