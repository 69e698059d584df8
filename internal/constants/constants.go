package constants

import "time"

// 会话令牌常量
const (
	SessionCookieName = "admin-auth-token"
	SessionTokenTTL   = 2 * time.Hour
	SessionIssuer     = "folio-next"
	SessionAudience   = "folio-next-admin"
)

// 路由常量
const (
	AdminPathPrefix = "/admin"
	LoginPath       = "/login"
	LogoutPath      = "/logout"
)

// 施工模式常量
const (
	ConstructionWindow = 5 * time.Minute

	MissingDeadlineInactive = "inactive"
	MissingDeadlineActive   = "active"
)

// 空闲超时默认值（管理端客户端使用）
const (
	IdleWarningDelay     = 2 * time.Minute
	IdleForceLogoutDelay = 3 * time.Minute
)

// 设置键常量
const (
	ProfileSettingsKey    = "profile"
	SettingKeySiteProfile = "site_profile"
	CacheKeyPublicProfile = "profile:public"
	PublicProfileCacheTTL = 60 * time.Second
)

// 站点资料字段
const (
	SettingFieldDisplayName = "display_name"
	SettingFieldHeadline    = "headline"
	SettingFieldBio         = "bio"
	SettingFieldEmail       = "email"
	SettingFieldLocation    = "location"
	SettingFieldLinks       = "links"
)

// 上传场景常量
const (
	UploadSceneProfile = "profile"
	UploadSceneCV      = "cv"
)

// 队列常量
const (
	QueueDefault     = "default"
	TaskAssetCleanup = "asset:cleanup"
)

// 数据库驱动常量
const (
	DatabaseDriverSQLite   = "sqlite"
	DatabaseDriverPostgres = "postgres"
	DatabaseDriverMongo    = "mongodb"
)
