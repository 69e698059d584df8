package main

import (
	"context"
	"flag"
	"os"

	"github.com/folio-next/internal/app"
	"github.com/folio-next/internal/config"
	"github.com/folio-next/internal/logger"
	"github.com/folio-next/internal/provider"
)

func main() {
	displayName := flag.String("name", "Your Name", "站点展示名称")
	headline := flag.String("headline", "Software Engineer", "一句话简介")
	email := flag.String("email", "", "联系邮箱")
	username := flag.String("admin", "admin", "默认管理员用户名")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	closeStorage, err := app.InitStorage(cfg)
	if err != nil {
		stdLog.Fatalf("Failed to init storage: %v", err)
	}
	defer closeStorage()

	container := provider.NewContainer(cfg)
	defer container.Close()
	ctx := context.Background()

	if password := os.Getenv("FOLIO_DEFAULT_ADMIN_PASSWORD"); password != "" {
		created, err := container.AuthService.InitDefaultAdmin(ctx, *username, password)
		if err != nil {
			stdLog.Fatalf("Failed to create admin: %v", err)
		}
		if created {
			logger.Infow("seed_admin_created", "username", *username)
		}
	}

	value, err := container.SettingService.UpdateSiteProfile(ctx, map[string]interface{}{
		"display_name": *displayName,
		"headline":     *headline,
		"email":        *email,
		"bio":          "",
		"location":     "",
		"links": map[string]interface{}{
			"github": "https://github.com/",
		},
	})
	if err != nil {
		stdLog.Fatalf("Failed to seed site profile: %v", err)
	}
	if err := container.ConstructionService.Deactivate(ctx); err != nil {
		stdLog.Fatalf("Failed to reset construction mode: %v", err)
	}
	logger.Infow("seed_site_profile_done", "display_name", value["display_name"])
}
