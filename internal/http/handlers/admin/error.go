package admin

import (
	handlershared "github.com/folio-next/internal/http/handlers/shared"
	"github.com/folio-next/internal/http/response"
	"github.com/folio-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

var credentialErrorRules = append([]handlershared.MappedError{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.user_not_found"},
	{Target: service.ErrInvalidPassword, Code: response.CodeBadRequest, Key: "error.password_old_invalid"},
	{Target: service.ErrValidation, Code: response.CodeBadRequest, Key: "error.credentials_nothing_to_change"},
	{Target: service.ErrUsernameInvalid, Code: response.CodeBadRequest, Key: "error.username_invalid"},
	{Target: service.ErrUsernameTaken, Code: response.CodeBadRequest, Key: "error.username_taken"},
}, handlershared.SessionErrorRules...)

var settingErrorRules = []handlershared.MappedError{
	{Target: service.ErrValidation, Code: response.CodeBadRequest, Key: "error.settings_invalid"},
}
