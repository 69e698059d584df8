package provider

import (
	"github.com/folio-next/internal/cache"
	"github.com/folio-next/internal/config"
	"github.com/folio-next/internal/logger"
	"github.com/folio-next/internal/metrics"
	"github.com/folio-next/internal/models"
	"github.com/folio-next/internal/queue"
	"github.com/folio-next/internal/repository"
	"github.com/folio-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	Metrics     *metrics.Metrics
	QueueClient *queue.Client

	// Repositories
	AdminRepo          repository.AdminRepository
	SettingRepo        repository.SettingRepository
	ProfileSettingRepo repository.ProfileSettingRepository

	// Services
	TokenService        *service.TokenService
	AuthService         *service.AuthService
	ConstructionService *service.ConstructionService
	SessionService      *service.SessionService
	SettingService      *service.SettingService
	UploadService       *service.UploadService
	ProfileService      *service.ProfileService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		Metrics:     metrics.New(),
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

// NewContainerWithRepositories 使用给定仓库装配服务（测试与 seed 命令使用）
func NewContainerWithRepositories(
	cfg *config.Config,
	adminRepo repository.AdminRepository,
	settingRepo repository.SettingRepository,
	profileRepo repository.ProfileSettingRepository,
) *Container {
	c := &Container{
		Config:             cfg,
		Metrics:            metrics.New(),
		AdminRepo:          adminRepo,
		SettingRepo:        settingRepo,
		ProfileSettingRepo: profileRepo,
	}
	c.initServices()
	return c
}

func (c *Container) initRepositories() {
	if models.IsMongoDriver(c.Config.Database.Driver) {
		db := models.Mongo
		c.AdminRepo = repository.NewMongoAdminRepository(db)
		c.SettingRepo = repository.NewMongoSettingRepository(db)
		c.ProfileSettingRepo = repository.NewMongoProfileSettingRepository(db)
		return
	}
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.SettingRepo = repository.NewSettingRepository(db)
	c.ProfileSettingRepo = repository.NewProfileSettingRepository(db)
}

func (c *Container) initServices() {
	c.TokenService = service.NewTokenService(c.Config.JWT.SecretKey)
	c.ConstructionService = service.NewConstructionService(c.ProfileSettingRepo, service.ConstructionOptions{
		Window:                c.Config.Construction.Window(),
		MissingDeadlinePolicy: c.Config.Construction.MissingDeadlinePolicy,
	}, c.Metrics)
	c.SessionService = service.NewSessionService(c.ConstructionService, c.Metrics)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo, c.TokenService, c.ConstructionService)
	c.SettingService = service.NewSettingService(c.SettingRepo)
	c.UploadService = service.NewUploadService(c.Config)

	// 队列不可用时旧文件同步删除
	var cleaner queue.AssetCleaner
	if c.QueueClient != nil && c.QueueClient.Enabled() {
		cleaner = c.QueueClient
	}
	c.ProfileService = service.NewProfileService(c.ProfileSettingRepo, c.SettingService, c.ConstructionService, c.UploadService, cleaner)

	// 施工状态与站点资料变化后失效公开资料缓存
	c.ConstructionService.OnChange(c.ProfileService.InvalidatePublicCache)
	c.SettingService.OnChange(c.ProfileService.InvalidatePublicCache)
}

// Close 释放容器持有的外部连接
func (c *Container) Close() {
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
		}
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
