package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/folio-next/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// settingDocument 设置值以 JSON 文本存储，读取时保持与关系型实现一致的类型
type settingDocument struct {
	Key       string `bson:"_id"`
	ValueJSON string `bson:"value_json"`
}

// MongoSettingRepository 文档数据库实现
type MongoSettingRepository struct {
	coll *mongo.Collection
}

// NewMongoSettingRepository 创建文档数据库设置仓库
func NewMongoSettingRepository(db *mongo.Database) *MongoSettingRepository {
	return &MongoSettingRepository{coll: db.Collection(models.MongoCollectionSettings)}
}

// GetByKey 获取设置
func (r *MongoSettingRepository) GetByKey(ctx context.Context, key string) (*models.Setting, error) {
	var doc settingDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	value := models.JSON{}
	if doc.ValueJSON != "" {
		if err := json.Unmarshal([]byte(doc.ValueJSON), &value); err != nil {
			return nil, err
		}
	}
	return &models.Setting{Key: doc.Key, ValueJSON: value}, nil
}

// Upsert 更新或创建设置
func (r *MongoSettingRepository) Upsert(ctx context.Context, key string, value models.JSON) (*models.Setting, error) {
	if value == nil {
		value = models.JSON{}
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	_, err = r.coll.UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{"$set": bson.M{"value_json": string(payload)}},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return nil, err
	}
	return &models.Setting{Key: key, ValueJSON: value}, nil
}
