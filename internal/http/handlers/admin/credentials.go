package admin

import (
	"errors"
	"time"

	handlershared "github.com/folio-next/internal/http/handlers/shared"
	"github.com/folio-next/internal/http/response"
	"github.com/folio-next/internal/i18n"
	"github.com/folio-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ChangeCredentialsRequest 修改凭据请求
type ChangeCredentialsRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewUsername     string `json:"new_username"`
	NewPassword     string `json:"new_password"`
}

// ChangeCredentialsResponse 修改凭据响应
type ChangeCredentialsResponse struct {
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ChangeCredentials 修改用户名或密码，成功后下发新的会话 Cookie
func (h *Handler) ChangeCredentials(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req ChangeCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	admin, token, expiresAt, err := h.AuthService.ChangeCredentials(c.Request.Context(), adminID, service.ChangeCredentialsInput{
		CurrentPassword: req.CurrentPassword,
		NewUsername:     req.NewUsername,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		if errors.Is(err, service.ErrWeakPassword) {
			handlershared.RespondPolicyError(c, response.CodeBadRequest, err, "error.password_weak")
			return
		}
		handlershared.RespondMapped(c, err, credentialErrorRules, response.CodeInternal, "error.save_failed")
		return
	}

	handlershared.SetSessionCookie(c, h.cookie(), token)
	requestLog(c).Infow("admin_credentials_changed", "admin_id", admin.ID)
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.credentials_updated"), ChangeCredentialsResponse{
		Username:  admin.Username,
		ExpiresAt: expiresAt,
	})
}
