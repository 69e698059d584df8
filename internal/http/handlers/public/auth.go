package public

import (
	"errors"
	"time"

	"github.com/folio-next/internal/constants"
	handlershared "github.com/folio-next/internal/http/handlers/shared"
	"github.com/folio-next/internal/http/response"
	"github.com/folio-next/internal/i18n"
	"github.com/folio-next/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应，令牌只通过 HttpOnly Cookie 下发
type LoginResponse struct {
	User      map[string]interface{} `json:"user"`
	ExpiresAt time.Time              `json:"expires_at"`
	Redirect  string                 `json:"redirect"`
}

// LoginEntry 登录入口，守卫重定向的落点
func (h *Handler) LoginEntry(c *gin.Context) {
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.login_required"), gin.H{
		"login_endpoint": "/api/v1/auth/login",
		"method":         "POST",
		"fields":         []string{"username", "password"},
	})
}

// Login 管理员登录，成功后写入会话 Cookie
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	admin, token, expiresAt, err := h.AuthService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.Metrics.ObserveLogin("invalid")
			requestLog(c).Infow("admin_login_rejected", "username", req.Username, "client_ip", c.ClientIP())
			respondError(c, response.CodeUnauthorized, "error.admin_login_invalid", nil)
			return
		}
		h.Metrics.ObserveLogin("error")
		respondError(c, response.CodeInternal, "error.login_failed", err)
		return
	}

	h.Metrics.ObserveLogin("success")
	handlershared.SetSessionCookie(c, h.cookie(), token)
	response.Success(c, LoginResponse{
		User: map[string]interface{}{
			"id":       admin.ID,
			"username": admin.Username,
		},
		ExpiresAt: expiresAt,
		Redirect:  constants.AdminPathPrefix,
	})
}

// Logout 在 /admin 外的退出入口，会话已失效时同样可用。
// 只有持有效会话的请求才会关闭施工模式，其余请求仅清除 cookie。
func (h *Handler) Logout(c *gin.Context) {
	cookie := h.cookie()
	raw, present := handlershared.ReadSessionCookie(c, cookie)
	handlershared.ClearSessionCookie(c, cookie)
	if present {
		if _, err := h.TokenService.Verify(raw); err == nil {
			h.SessionService.Terminate(c.Request.Context())
		} else {
			requestLog(c).Debugw("public_logout_invalid_session", "error", err)
		}
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.logged_out"), gin.H{
		"redirect": constants.LoginPath,
	})
}
