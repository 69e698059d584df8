package app

import (
	"context"
	"fmt"
	"time"

	"github.com/folio-next/internal/config"
	"github.com/folio-next/internal/logger"
	"github.com/folio-next/internal/models"
)

// InitStorage 按 database.driver 初始化存储并完成迁移，返回释放函数
func InitStorage(cfg *config.Config) (func(), error) {
	if models.IsMongoDriver(cfg.Database.Driver) {
		if err := models.InitMongo(cfg.Database.DSN, cfg.Database.Database); err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := models.EnsureMongoIndexes(ctx); err != nil {
			return nil, fmt.Errorf("ensure mongodb indexes failed: %w", err)
		}
		return func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := models.CloseMongo(ctx); err != nil {
				logger.Warnw("storage_close_mongo_failed", "error", err)
			}
		}, nil
	}

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		return nil, err
	}
	if err := models.AutoMigrate(); err != nil {
		return nil, fmt.Errorf("auto migrate failed: %w", err)
	}
	return func() {
		if err := models.CloseDB(); err != nil {
			logger.Warnw("storage_close_db_failed", "error", err)
		}
	}, nil
}
