package public

import (
	handlershared "github.com/folio-next/internal/http/handlers/shared"
	"github.com/folio-next/internal/provider"
)

// Handler 前台/公开接口处理器入口
// 说明：该处理器用于登录入口与访客侧 API。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func (h *Handler) cookie() handlershared.CookieConfig {
	return handlershared.CookieFromConfig(h.Config)
}
