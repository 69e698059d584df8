package admin

import (
	"time"

	handlershared "github.com/folio-next/internal/http/handlers/shared"
	"github.com/folio-next/internal/http/response"
	"github.com/folio-next/internal/i18n"
	"github.com/folio-next/internal/models"

	"github.com/gin-gonic/gin"
)

// IdleSettings 下发给管理端的空闲超时配置
type IdleSettings struct {
	WarningSeconds     int `json:"warning_seconds"`
	ForceLogoutSeconds int `json:"force_logout_seconds"`
}

// SessionInfo 当前会话信息
type SessionInfo struct {
	AdminID      uint                     `json:"admin_id"`
	Username     string                   `json:"username"`
	Construction models.ConstructionState `json:"construction"`
	Idle         IdleSettings             `json:"idle"`
}

// HeartbeatResponse 心跳响应
type HeartbeatResponse struct {
	ActiveUntil time.Time `json:"active_until"`
}

func (h *Handler) idleSettings() IdleSettings {
	return IdleSettings{
		WarningSeconds:     h.Config.Idle.WarningSeconds,
		ForceLogoutSeconds: h.Config.Idle.ForceLogoutSeconds,
	}
}

// Dashboard 进入管理后台，开启施工模式
func (h *Handler) Dashboard(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	state, err := h.ConstructionService.Activate(c.Request.Context())
	if err != nil {
		// 施工模式开启失败不阻断后台访问
		requestLog(c).Warnw("admin_dashboard_activate_failed", "admin_id", adminID, "error", err)
	}

	data := gin.H{
		"session": SessionInfo{
			AdminID:      adminID,
			Username:     handlershared.GetUsername(c),
			Construction: state,
			Idle:         h.idleSettings(),
		},
	}
	if snapshot, err := h.ProfileService.GetAdminSnapshot(c.Request.Context()); err != nil {
		requestLog(c).Warnw("admin_dashboard_profile_load_failed", "error", err)
	} else {
		data["profile"] = snapshot
	}
	response.Success(c, data)
}

// GetSession 读取当前会话
func (h *Handler) GetSession(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	state, err := h.ConstructionService.GetEffectiveState(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.construction_unavailable", err)
		return
	}
	response.Success(c, SessionInfo{
		AdminID:      adminID,
		Username:     handlershared.GetUsername(c),
		Construction: state,
		Idle:         h.idleSettings(),
	})
}

// Heartbeat 延长施工模式截止时间
func (h *Handler) Heartbeat(c *gin.Context) {
	until, err := h.ConstructionService.Heartbeat(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.save_failed", err)
		return
	}
	response.Success(c, HeartbeatResponse{ActiveUntil: until})
}

// Logout 结束会话：清除 Cookie 并关闭施工模式，始终返回成功
func (h *Handler) Logout(c *gin.Context) {
	handlershared.ClearSessionCookie(c, h.cookie())
	h.SessionService.Terminate(c.Request.Context())
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.logged_out"), nil)
}
