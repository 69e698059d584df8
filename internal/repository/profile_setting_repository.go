package repository

import (
	"context"
	"errors"
	"time"

	"github.com/folio-next/internal/constants"
	"github.com/folio-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileSettingRepository 站点资料单例记录访问接口
// 所有写操作均按固定键 upsert，记录最多一条
type ProfileSettingRepository interface {
	Get(ctx context.Context) (*models.ProfileSettings, error)
	SaveConstruction(ctx context.Context, state models.ConstructionState) error
	ExtendConstruction(ctx context.Context, until time.Time) error
	SaveProfileImage(ctx context.Context, url string) error
	SaveCV(ctx context.Context, url, name string) error
}

// GormProfileSettingRepository GORM 实现
type GormProfileSettingRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewProfileSettingRepository 创建站点资料仓库
func NewProfileSettingRepository(db *gorm.DB) *GormProfileSettingRepository {
	return &GormProfileSettingRepository{db: db, now: time.Now}
}

// Get 读取单例记录，不存在时返回 nil
func (r *GormProfileSettingRepository) Get(ctx context.Context) (*models.ProfileSettings, error) {
	var record models.ProfileSettings
	if err := r.db.WithContext(ctx).Where("key = ?", constants.ProfileSettingsKey).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// SaveConstruction 同时写入施工状态与截止时间
func (r *GormProfileSettingRepository) SaveConstruction(ctx context.Context, state models.ConstructionState) error {
	record := r.newRecord()
	record.IsUnderConstruction = state.IsActive
	record.ConstructionActiveUntil = state.ActiveUntil
	return r.upsert(ctx, &record, "is_under_construction", "construction_active_until")
}

// ExtendConstruction 仅更新截止时间
func (r *GormProfileSettingRepository) ExtendConstruction(ctx context.Context, until time.Time) error {
	record := r.newRecord()
	record.ConstructionActiveUntil = &until
	return r.upsert(ctx, &record, "construction_active_until")
}

// SaveProfileImage 更新头像地址
func (r *GormProfileSettingRepository) SaveProfileImage(ctx context.Context, url string) error {
	record := r.newRecord()
	record.ProfileImageURL = url
	return r.upsert(ctx, &record, "profile_image_url")
}

// SaveCV 更新简历文件
func (r *GormProfileSettingRepository) SaveCV(ctx context.Context, url, name string) error {
	record := r.newRecord()
	record.CVFileURL = url
	record.CVFileName = name
	return r.upsert(ctx, &record, "cv_file_url", "cv_file_name")
}

func (r *GormProfileSettingRepository) newRecord() models.ProfileSettings {
	return models.ProfileSettings{
		Key:       constants.ProfileSettingsKey,
		UpdatedAt: r.now(),
	}
}

func (r *GormProfileSettingRepository) upsert(ctx context.Context, record *models.ProfileSettings, columns ...string) error {
	columns = append(columns, "updated_at")
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(record).Error
}
