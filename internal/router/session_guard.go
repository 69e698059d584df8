package router

import (
	"net/http"
	"strings"

	"github.com/folio-next/internal/constants"
	"github.com/folio-next/internal/http/handlers/shared"
	"github.com/folio-next/internal/logger"
	"github.com/folio-next/internal/metrics"
	"github.com/folio-next/internal/service"

	"github.com/gin-gonic/gin"
)

// SessionOutcome 会话判定结果
type SessionOutcome int

const (
	// SessionAbsent 未携带会话 Cookie
	SessionAbsent SessionOutcome = iota
	// SessionInvalid 携带了 Cookie 但令牌无效
	SessionInvalid
	// SessionValid 令牌有效
	SessionValid
)

// String 返回指标标签
func (o SessionOutcome) String() string {
	switch o {
	case SessionInvalid:
		return "invalid"
	case SessionValid:
		return "valid"
	default:
		return "absent"
	}
}

// SessionDecision 会话判定
type SessionDecision struct {
	Outcome SessionOutcome
	Claims  *service.SessionClaims
}

// ClassifySession 判定会话状态，未携带 Cookie 时不调用校验器
func ClassifySession(raw string, present bool, verifier service.SessionVerifier) SessionDecision {
	if !present {
		return SessionDecision{Outcome: SessionAbsent}
	}
	if verifier == nil {
		return SessionDecision{Outcome: SessionInvalid}
	}
	claims, err := verifier.Verify(raw)
	if err != nil || claims == nil {
		return SessionDecision{Outcome: SessionInvalid}
	}
	return SessionDecision{Outcome: SessionValid, Claims: claims}
}

// isAdminPath 仅匹配 /admin 与 /admin/ 下的路径
func isAdminPath(path string) bool {
	return path == constants.AdminPathPrefix || strings.HasPrefix(path, constants.AdminPathPrefix+"/")
}

// AdminSessionGuard 管理端会话守卫
func AdminSessionGuard(verifier service.SessionVerifier, cookie shared.CookieConfig, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isAdminPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		raw, present := shared.ReadSessionCookie(c, cookie)
		decision := ClassifySession(raw, present, verifier)
		m.ObserveGuardDecision(decision.Outcome.String())

		switch decision.Outcome {
		case SessionValid:
			c.Set(shared.ContextKeyAdminID, decision.Claims.AdminID)
			c.Set(shared.ContextKeyUsername, decision.Claims.Username)
			c.Next()
			return
		case SessionInvalid:
			logger.Debugw("session_guard_token_rejected", "path", c.Request.URL.Path, "request_id", getRequestID(c))
			shared.ClearSessionCookie(c, cookie)
		}
		c.Redirect(http.StatusFound, constants.LoginPath)
		c.Abort()
	}
}
