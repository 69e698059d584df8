package shared

import (
	"net/http"
	"time"

	"github.com/folio-next/internal/config"
	"github.com/folio-next/internal/constants"

	"github.com/gin-gonic/gin"
)

// CookieConfig 会话 Cookie 属性，写入与清除必须使用同一组属性
type CookieConfig struct {
	Name   string
	Path   string
	Secure bool
}

// Normalize 填充默认名称与路径
func (c CookieConfig) Normalize() CookieConfig {
	if c.Name == "" {
		c.Name = constants.SessionCookieName
	}
	if c.Path == "" {
		c.Path = "/"
	}
	return c
}

// CookieFromConfig 从配置生成会话 Cookie 属性
func CookieFromConfig(cfg *config.Config) CookieConfig {
	if cfg == nil {
		return CookieConfig{}.Normalize()
	}
	return CookieConfig{Name: cfg.Session.CookieName, Secure: cfg.CookieSecure()}.Normalize()
}

// SetSessionCookie 写入会话 Cookie，有效期与令牌一致
func SetSessionCookie(c *gin.Context, cfg CookieConfig, token string) {
	cfg = cfg.Normalize()
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cfg.Name,
		Value:    token,
		Path:     cfg.Path,
		MaxAge:   int(constants.SessionTokenTTL / time.Second),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie 删除会话 Cookie（Max-Age=0）
func ClearSessionCookie(c *gin.Context, cfg CookieConfig) {
	cfg = cfg.Normalize()
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cfg.Name,
		Value:    "",
		Path:     cfg.Path,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ReadSessionCookie 读取会话 Cookie，present 区分缺失与空值
func ReadSessionCookie(c *gin.Context, cfg CookieConfig) (string, bool) {
	cfg = cfg.Normalize()
	cookie, err := c.Request.Cookie(cfg.Name)
	if err != nil {
		return "", false
	}
	return cookie.Value, true
}
