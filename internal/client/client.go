package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/folio-next/internal/constants"
	"github.com/folio-next/internal/logger"

	"go.uber.org/zap"
)

const defaultTimeout = 10 * time.Second

// ErrUnauthenticated 会话缺失或已失效，服务端重定向到登录入口
var ErrUnauthenticated = errors.New("session unauthenticated")

// APIError 服务端返回的业务错误
type APIError struct {
	StatusCode int
	Msg        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Msg)
}

type envelope struct {
	Success    bool            `json:"success"`
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Error      string          `json:"error"`
	Data       json.RawMessage `json:"data"`
}

// Construction 施工模式状态
type Construction struct {
	IsActive    bool       `json:"is_active"`
	ActiveUntil *time.Time `json:"active_until"`
}

// IdleSettings 服务端下发的空闲超时秒数
type IdleSettings struct {
	WarningSeconds     int `json:"warning_seconds"`
	ForceLogoutSeconds int `json:"force_logout_seconds"`
}

// WarningDelay 提示延迟，未下发时使用默认值
func (s IdleSettings) WarningDelay() time.Duration {
	if s.WarningSeconds <= 0 {
		return constants.IdleWarningDelay
	}
	return time.Duration(s.WarningSeconds) * time.Second
}

// ForceLogoutDelay 强制退出延迟，未下发时使用默认值
func (s IdleSettings) ForceLogoutDelay() time.Duration {
	if s.ForceLogoutSeconds <= 0 {
		return constants.IdleForceLogoutDelay
	}
	return time.Duration(s.ForceLogoutSeconds) * time.Second
}

// Session 当前会话
type Session struct {
	AdminID      uint         `json:"admin_id"`
	Username     string       `json:"username"`
	Construction Construction `json:"construction"`
	Idle         IdleSettings `json:"idle"`
}

// Dashboard 进入后台时返回的数据
type Dashboard struct {
	Session Session                `json:"session"`
	Profile map[string]interface{} `json:"profile"`
}

// LoginResult 登录结果
type LoginResult struct {
	User struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
	} `json:"user"`
	ExpiresAt time.Time `json:"expires_at"`
	Redirect  string    `json:"redirect"`
}

// Option 客户端可选项
type Option func(*Client)

// WithHTTPClient 使用自定义 http.Client，未设置 Jar 时自动补上
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLocale 设置 Accept-Language
func WithLocale(locale string) Option {
	return func(c *Client) {
		c.locale = strings.TrimSpace(locale)
	}
}

// WithLogger 替换日志实例
func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// Client 管理端会话客户端，通过 Cookie 保持登录态
type Client struct {
	base   *url.URL
	http   *http.Client
	locale string
	log    *zap.SugaredLogger
}

// New 创建客户端
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	c := &Client{
		base: base,
		http: &http.Client{Timeout: defaultTimeout},
		log:  logger.S(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		c.http.Jar = jar
	}
	// 守卫的 302 需要原样拿到，不能跟随
	c.http.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return c, nil
}

// Login 登录并保存会话 Cookie
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	body := map[string]string{"username": username, "password": password}
	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// EnterDashboard 进入后台，服务端随之开启施工模式
func (c *Client) EnterDashboard(ctx context.Context) (*Dashboard, error) {
	var dashboard Dashboard
	if err := c.do(ctx, http.MethodGet, constants.AdminPathPrefix, nil, &dashboard); err != nil {
		return nil, err
	}
	return &dashboard, nil
}

// Session 读取当前会话
func (c *Client) Session(ctx context.Context) (*Session, error) {
	var session Session
	if err := c.do(ctx, http.MethodGet, "/admin/api/session", nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Heartbeat 延长施工模式
func (c *Client) Heartbeat(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/admin/api/session/heartbeat", nil, nil)
}

// Logout 结束会话。会话已失效时改走 /logout，保证本地与服务端状态都被清理。
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/admin/api/session/logout", nil, nil)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrUnauthenticated) {
		c.log.Debugw("client_logout_fallback", "error", err)
	}
	return c.do(ctx, http.MethodGet, constants.LogoutPath, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	target := c.base.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.locale != "" {
		req.Header.Set("Accept-Language", c.locale)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusFound || resp.StatusCode == http.StatusSeeOther {
		if isLoginRedirect(resp.Header.Get("Location")) {
			return ErrUnauthenticated
		}
		return fmt.Errorf("%s %s: unexpected redirect to %s", method, path, resp.Header.Get("Location"))
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s %s: unexpected http status %d", method, path, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = env.Msg
		}
		return &APIError{StatusCode: env.StatusCode, Msg: msg}
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

func isLoginRedirect(location string) bool {
	parsed, err := url.Parse(location)
	if err != nil {
		return false
	}
	return parsed.Path == constants.LoginPath
}
