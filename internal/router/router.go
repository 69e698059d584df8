package router

import (
	"fmt"
	"strings"

	"github.com/folio-next/internal/cache"
	"github.com/folio-next/internal/config"
	adminhandlers "github.com/folio-next/internal/http/handlers/admin"
	publichandlers "github.com/folio-next/internal/http/handlers/public"
	handlershared "github.com/folio-next/internal/http/handlers/shared"
	"github.com/folio-next/internal/http/response"
	"github.com/folio-next/internal/i18n"
	"github.com/folio-next/internal/logger"
	"github.com/folio-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "folio"
	}
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.rate_limited",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	// 会话守卫全局挂载，仅作用于 /admin 前缀（未匹配路由同样受保护）
	r.Use(AdminSessionGuard(c.TokenService, handlershared.CookieFromConfig(cfg), c.Metrics))

	// 静态文件服务（头像与简历）
	r.Static("/uploads", c.UploadService.Dir())

	// 登录入口与退出（位于 /admin 之外）
	r.GET("/login", publicHandler.LoginEntry)
	r.GET("/logout", publicHandler.Logout)

	apiV1 := r.Group("/api/v1")
	{
		apiV1.POST("/auth/login", RateLimitMiddleware(cache.Client(), loginRule, KeyByIPAndJSONField("username"), c.Metrics), publicHandler.Login)

		public := apiV1.Group("/public")
		{
			public.GET("/profile", publicHandler.GetProfile)
			public.GET("/construction", publicHandler.GetConstruction)
		}
	}

	// 管理后台（会话守卫已校验）
	r.GET("/admin", adminHandler.Dashboard)
	adminAPI := r.Group("/admin/api")
	{
		adminAPI.GET("/session", adminHandler.GetSession)
		adminAPI.POST("/session/heartbeat", adminHandler.Heartbeat)
		adminAPI.POST("/session/logout", adminHandler.Logout)
		adminAPI.PUT("/credentials", adminHandler.ChangeCredentials)
		adminAPI.GET("/settings/site", adminHandler.GetSiteProfile)
		adminAPI.PUT("/settings/site", adminHandler.UpdateSiteProfile)
		adminAPI.POST("/profile/image", adminHandler.UploadProfileImage)
		adminAPI.POST("/profile/cv", adminHandler.UploadCV)
		adminAPI.DELETE("/profile/cv", adminHandler.DeleteCV)
	}

	// 健康检查与指标
	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(c.Metrics.Handler()))

	r.NoRoute(func(ctx *gin.Context) {
		response.NotFound(ctx, i18n.T(i18n.ResolveLocale(ctx), "error.not_found"))
	})

	return r
}
