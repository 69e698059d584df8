package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// 文档集合名称
const (
	MongoCollectionAdmins          = "admins"
	MongoCollectionProfileSettings = "profile_settings"
	MongoCollectionSettings        = "settings"
	MongoCollectionCounters        = "counters"
)

var (
	// Mongo 文档数据库实例（database.driver 为 mongodb 时可用）
	Mongo       *mongo.Database
	mongoClient *mongo.Client
)

// InitMongo 初始化文档数据库连接
func InitMongo(uri, database string) error {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return fmt.Errorf("mongodb uri is empty")
	}
	database = strings.TrimSpace(database)
	if database == "" {
		database = "folio"
	}
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("connect mongodb failed: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("ping mongodb failed: %w", err)
	}
	mongoClient = client
	Mongo = client.Database(database)
	return nil
}

// EnsureMongoIndexes 创建文档集合所需索引
func EnsureMongoIndexes(ctx context.Context) error {
	if Mongo == nil {
		return fmt.Errorf("mongodb not initialized")
	}
	_, err := Mongo.Collection(MongoCollectionAdmins).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// CloseMongo 关闭文档数据库连接
func CloseMongo(ctx context.Context) error {
	if mongoClient == nil {
		return nil
	}
	return mongoClient.Disconnect(ctx)
}
