package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/folio-next/internal/app"
	"github.com/folio-next/internal/config"
	"github.com/folio-next/internal/logger"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiCyan  = "\033[36m"
)

func main() {
	printStartupBanner()

	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := cfg.Validate(); err != nil {
		stdLog.Fatalf("配置校验失败: %v", err)
	}

	if cfg.Server.IsRelease() {
		if isWeakSecret(cfg.JWT.SecretKey) {
			stdLog.Fatalf("JWT secret 过弱或仍为默认值，请在生产环境中配置强随机密钥")
		}
	} else if isWeakSecret(cfg.JWT.SecretKey) {
		stdLog.Printf("警告: JWT secret 过弱或仍为默认值，建议在生产环境中更换")
	}

	// 初始化存储
	closeStorage, err := app.InitStorage(cfg)
	if err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}
	defer closeStorage()

	// 默认管理员账号
	var defaultAdmin *app.DefaultAdmin
	defaultAdminUser := strings.TrimSpace(os.Getenv("FOLIO_DEFAULT_ADMIN_USERNAME"))
	defaultAdminPass := os.Getenv("FOLIO_DEFAULT_ADMIN_PASSWORD")
	if defaultAdminUser == "" {
		defaultAdminUser = "admin"
	}
	switch {
	case defaultAdminPass != "":
		defaultAdmin = &app.DefaultAdmin{Username: defaultAdminUser, Password: defaultAdminPass}
	case cfg.Server.IsRelease():
		stdLog.Printf("警告: 未设置 FOLIO_DEFAULT_ADMIN_PASSWORD，已跳过默认管理员初始化")
	default:
		defaultAdmin = &app.DefaultAdmin{Username: defaultAdminUser, Password: "admin123"}
	}

	// 设置 Gin 模式
	if cfg.Server.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 解析命令行参数
	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()

	if err := app.Run(app.Options{
		Config:       cfg,
		Logger:       logger.S(),
		Signals:      []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:         mode,
		DefaultAdmin: defaultAdmin,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

func printStartupBanner() {
	fmt.Println(ansiCyan + ansiBold + "folio-next" + ansiReset + ansiDim + "  portfolio admin api" + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------------------------" + ansiReset)
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	if strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key") {
		return true
	}
	return false
}
