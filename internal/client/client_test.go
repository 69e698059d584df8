package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/folio-next/internal/config"
	"github.com/folio-next/internal/models"
	"github.com/folio-next/internal/provider"
	"github.com/folio-next/internal/repository"
	"github.com/folio-next/internal/router"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestServer(t *testing.T) (*httptest.Server, *provider.Container) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Admin{}, &models.ProfileSettings{}, &models.Setting{}); err != nil {
		t.Fatalf("migrate models failed: %v", err)
	}
	cfg := &config.Config{}
	cfg.Server.Mode = "debug"
	cfg.JWT.SecretKey = "client-test-secret-0123456789abcdef"
	cfg.Upload.Dir = t.TempDir()
	cfg.Idle.WarningSeconds = 120
	cfg.Idle.ForceLogoutSeconds = 180
	c := provider.NewContainerWithRepositories(cfg,
		repository.NewAdminRepository(db),
		repository.NewSettingRepository(db),
		repository.NewProfileSettingRepository(db),
	)
	if _, err := c.AuthService.InitDefaultAdmin(context.Background(), "owner", "secret123"); err != nil {
		t.Fatalf("init admin failed: %v", err)
	}
	srv := httptest.NewServer(router.SetupRouter(cfg, c))
	t.Cleanup(srv.Close)
	return srv, c
}

func TestClientSessionLifecycle(t *testing.T) {
	srv, c := newTestServer(t)
	ctx := context.Background()
	cl, err := New(srv.URL, WithLocale("en-US"))
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}

	if _, err := cl.EnterDashboard(ctx); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("dashboard before login want ErrUnauthenticated got %v", err)
	}

	result, err := cl.Login(ctx, "owner", "secret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.User.Username != "owner" || result.Redirect != "/admin" {
		t.Fatalf("unexpected login result: %+v", result)
	}

	dashboard, err := cl.EnterDashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	if !dashboard.Session.Construction.IsActive || dashboard.Session.Construction.ActiveUntil == nil {
		t.Fatalf("dashboard should report active construction: %+v", dashboard.Session)
	}
	if dashboard.Session.Idle.WarningDelay().Seconds() != 120 || dashboard.Session.Idle.ForceLogoutDelay().Seconds() != 180 {
		t.Fatalf("unexpected idle settings: %+v", dashboard.Session.Idle)
	}

	if err := cl.Heartbeat(ctx); err != nil {
		t.Fatalf("heartbeat failed: %v", err)
	}
	session, err := cl.Session(ctx)
	if err != nil || session.Username != "owner" {
		t.Fatalf("session read failed: %+v err=%v", session, err)
	}

	if err := cl.Logout(ctx); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	state, err := c.ConstructionService.GetEffectiveState(ctx)
	if err != nil || state.IsActive {
		t.Fatalf("logout should deactivate construction, got %+v err=%v", state, err)
	}
	if err := cl.Heartbeat(ctx); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("heartbeat after logout want ErrUnauthenticated got %v", err)
	}
	// 再次退出走 /logout 兜底，仍然成功
	if err := cl.Logout(ctx); err != nil {
		t.Fatalf("second logout should succeed, got %v", err)
	}
}

func TestClientLoginRejected(t *testing.T) {
	srv, _ := newTestServer(t)
	hc := &http.Client{Timeout: 5 * time.Second}
	cl, err := New(srv.URL, WithHTTPClient(hc))
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if cl.http != hc || hc.Jar == nil || hc.CheckRedirect == nil {
		t.Fatalf("custom http client should be used with a cookie jar and redirect policy")
	}
	_, err = cl.Login(context.Background(), "owner", "wrong-password")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 401 {
		t.Fatalf("want 401 APIError got %v", err)
	}
}

func TestClientReportsUnexpectedResponses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/elsewhere")
	})
	r.POST("/admin/api/session/heartbeat", func(c *gin.Context) {
		c.String(http.StatusBadGateway, "upstream down")
	})
	r.GET("/admin/api/session", func(c *gin.Context) {
		c.String(http.StatusOK, "not json")
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	cl, err := New(srv.URL)
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	ctx := context.Background()
	if _, err := cl.EnterDashboard(ctx); err == nil || errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("foreign redirect should be a plain error, got %v", err)
	}
	if err := cl.Heartbeat(ctx); err == nil || !strings.Contains(err.Error(), "502") {
		t.Fatalf("want http status error got %v", err)
	}
	if _, err := cl.Session(ctx); err == nil || !strings.Contains(err.Error(), "decode") {
		t.Fatalf("want decode error got %v", err)
	}
}

func TestNewRejectsRelativeURL(t *testing.T) {
	if _, err := New("localhost:8080"); err == nil {
		t.Fatalf("relative base url should be rejected")
	}
}

func TestIdleSettingsFallback(t *testing.T) {
	var s IdleSettings
	if s.WarningDelay().Minutes() != 2 || s.ForceLogoutDelay().Minutes() != 3 {
		t.Fatalf("zero settings should fall back to 2m/3m")
	}
}
