package repository

import (
	"context"
	"errors"
	"time"

	"github.com/folio-next/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const adminCounterID = "admins"

// MongoAdminRepository 文档数据库实现
type MongoAdminRepository struct {
	admins   *mongo.Collection
	counters *mongo.Collection
}

// NewMongoAdminRepository 创建文档数据库管理员仓库
func NewMongoAdminRepository(db *mongo.Database) *MongoAdminRepository {
	return &MongoAdminRepository{
		admins:   db.Collection(models.MongoCollectionAdmins),
		counters: db.Collection(models.MongoCollectionCounters),
	}
}

// GetByUsername 根据用户名获取管理员
func (r *MongoAdminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// GetByID 根据 ID 获取管理员
func (r *MongoAdminRepository) GetByID(ctx context.Context, id uint) (*models.Admin, error) {
	if id == 0 {
		return nil, nil
	}
	return r.findOne(ctx, bson.M{"_id": int64(id)})
}

// Count 统计管理员数量
func (r *MongoAdminRepository) Count(ctx context.Context) (int64, error) {
	return r.admins.CountDocuments(ctx, bson.M{})
}

// Create 创建管理员，ID 由计数器集合分配
func (r *MongoAdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	id, err := r.nextID(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	admin.ID = id
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = now
	}
	admin.UpdatedAt = now
	_, err = r.admins.InsertOne(ctx, admin)
	return err
}

// Update 更新管理员
func (r *MongoAdminRepository) Update(ctx context.Context, admin *models.Admin) error {
	admin.UpdatedAt = time.Now()
	_, err := r.admins.ReplaceOne(ctx, bson.M{"_id": int64(admin.ID)}, admin)
	return err
}

func (r *MongoAdminRepository) findOne(ctx context.Context, filter bson.M) (*models.Admin, error) {
	var admin models.Admin
	if err := r.admins.FindOne(ctx, filter).Decode(&admin); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

func (r *MongoAdminRepository) nextID(ctx context.Context) (uint, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": adminCounterID},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return uint(counter.Seq), nil
}
