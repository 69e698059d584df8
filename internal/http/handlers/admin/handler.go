package admin

import (
	handlershared "github.com/folio-next/internal/http/handlers/shared"
	"github.com/folio-next/internal/provider"
)

// Handler 后台管理接口处理器入口
// 说明：所有路由均位于 /admin 下，由会话守卫保护。
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func (h *Handler) cookie() handlershared.CookieConfig {
	return handlershared.CookieFromConfig(h.Config)
}
