package shared

import (
	"github.com/folio-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// 会话守卫写入的上下文键
const (
	ContextKeyAdminID  = "admin_id"
	ContextKeyUsername = "username"
)

// GetContextUintWithKeys 从上下文读取 uint 值并统一处理错误响应。
func GetContextUintWithKeys(c *gin.Context, key, invalidKey, typeInvalidKey string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	case float64:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, response.CodeInternal, typeInvalidKey, nil)
		return 0, false
	}
}

// GetAdminID 读取当前管理员 ID
func GetAdminID(c *gin.Context) (uint, bool) {
	return GetContextUintWithKeys(c, ContextKeyAdminID, "error.unauthorized", "error.server_error")
}

// GetUsername 读取当前管理员用户名
func GetUsername(c *gin.Context) string {
	return c.GetString(ContextKeyUsername)
}
