package repository

import (
	"context"
	"errors"
	"time"

	"github.com/folio-next/internal/constants"
	"github.com/folio-next/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoProfileSettingRepository 文档数据库实现
type MongoProfileSettingRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongoProfileSettingRepository 创建文档数据库站点资料仓库
func NewMongoProfileSettingRepository(db *mongo.Database) *MongoProfileSettingRepository {
	return &MongoProfileSettingRepository{
		coll: db.Collection(models.MongoCollectionProfileSettings),
		now:  time.Now,
	}
}

// Get 读取单例记录，不存在时返回 nil
func (r *MongoProfileSettingRepository) Get(ctx context.Context) (*models.ProfileSettings, error) {
	var record models.ProfileSettings
	err := r.coll.FindOne(ctx, bson.M{"_id": constants.ProfileSettingsKey}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// SaveConstruction 同时写入施工状态与截止时间
func (r *MongoProfileSettingRepository) SaveConstruction(ctx context.Context, state models.ConstructionState) error {
	return r.set(ctx, bson.M{
		"is_under_construction":     state.IsActive,
		"construction_active_until": state.ActiveUntil,
	})
}

// ExtendConstruction 仅更新截止时间
func (r *MongoProfileSettingRepository) ExtendConstruction(ctx context.Context, until time.Time) error {
	return r.set(ctx, bson.M{"construction_active_until": until})
}

// SaveProfileImage 更新头像地址
func (r *MongoProfileSettingRepository) SaveProfileImage(ctx context.Context, url string) error {
	return r.set(ctx, bson.M{"profile_image_url": url})
}

// SaveCV 更新简历文件
func (r *MongoProfileSettingRepository) SaveCV(ctx context.Context, url, name string) error {
	return r.set(ctx, bson.M{"cv_file_url": url, "cv_file_name": name})
}

func (r *MongoProfileSettingRepository) set(ctx context.Context, fields bson.M) error {
	fields["updated_at"] = r.now()
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": constants.ProfileSettingsKey},
		bson.M{"$set": fields},
		options.UpdateOne().SetUpsert(true),
	)
	return err
}
