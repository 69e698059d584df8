package admin

import (
	handlershared "github.com/folio-next/internal/http/handlers/shared"
	"github.com/folio-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetSiteProfile 获取站点资料设置
func (h *Handler) GetSiteProfile(c *gin.Context) {
	value, err := h.SettingService.GetSiteProfile(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.server_error", err)
		return
	}
	response.Success(c, value)
}

// UpdateSiteProfile 更新站点资料设置
func (h *Handler) UpdateSiteProfile(c *gin.Context) {
	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	value, err := h.SettingService.UpdateSiteProfile(c.Request.Context(), req)
	if err != nil {
		handlershared.RespondMapped(c, err, settingErrorRules, response.CodeInternal, "error.save_failed")
		return
	}
	response.Success(c, value)
}
