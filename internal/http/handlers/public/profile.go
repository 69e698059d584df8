package public

import (
	"github.com/folio-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetProfile 公开站点资料，施工模式生效时只返回施工状态
func (h *Handler) GetProfile(c *gin.Context) {
	profile, err := h.ProfileService.GetPublic(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.profile_fetch_failed", err)
		return
	}
	response.Success(c, profile)
}

// GetConstruction 公开施工状态
func (h *Handler) GetConstruction(c *gin.Context) {
	state, err := h.ConstructionService.GetEffectiveState(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.construction_unavailable", err)
		return
	}
	response.Success(c, state)
}
