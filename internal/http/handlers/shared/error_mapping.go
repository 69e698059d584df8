package shared

import (
	"errors"

	"github.com/folio-next/internal/http/response"
	"github.com/folio-next/internal/service"

	"github.com/gin-gonic/gin"
)

// MappedError 定义业务错误到接口错误响应的映射关系。
type MappedError struct {
	Target error
	Code   int
	Key    string
}

// RespondMapped 按规则映射业务错误，未命中时记录原始错误并返回兜底响应。
func RespondMapped(c *gin.Context, err error, rules []MappedError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Key, nil)
			return
		}
	}
	RespondError(c, fallbackCode, fallbackKey, err)
}

// SessionErrorRules 会话缺失或失效
var SessionErrorRules = []MappedError{
	{Target: service.ErrUnauthenticated, Code: response.CodeUnauthorized, Key: "error.unauthorized"},
	{Target: service.ErrInvalidToken, Code: response.CodeUnauthorized, Key: "error.unauthorized"},
}

// UploadErrorRules 上传校验错误映射
var UploadErrorRules = []MappedError{
	{Target: service.ErrEmptyFile, Code: response.CodeBadRequest, Key: "error.upload_empty"},
	{Target: service.ErrFileTooLarge, Code: response.CodeBadRequest, Key: "error.upload_too_large"},
	{Target: service.ErrUnsupportedFileType, Code: response.CodeBadRequest, Key: "error.upload_type_invalid"},
	{Target: service.ErrImageDimensionTooBig, Code: response.CodeBadRequest, Key: "error.upload_dimension_too_large"},
	{Target: service.ErrUnsupportedUploadKind, Code: response.CodeBadRequest, Key: "error.upload_scene_invalid"},
}
