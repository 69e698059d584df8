package admin

import (
	handlershared "github.com/folio-next/internal/http/handlers/shared"
	"github.com/folio-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// UploadProfileImage 上传头像
func (h *Handler) UploadProfileImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.upload_file_missing", nil)
		return
	}
	stored, err := h.ProfileService.UpdateProfileImage(c.Request.Context(), file)
	if err != nil {
		handlershared.RespondMapped(c, err, handlershared.UploadErrorRules, response.CodeInternal, "error.upload_failed")
		return
	}
	response.Success(c, stored)
}

// UploadCV 上传简历
func (h *Handler) UploadCV(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.upload_file_missing", nil)
		return
	}
	stored, err := h.ProfileService.UpdateCV(c.Request.Context(), file)
	if err != nil {
		handlershared.RespondMapped(c, err, handlershared.UploadErrorRules, response.CodeInternal, "error.upload_failed")
		return
	}
	response.Success(c, stored)
}

// DeleteCV 移除简历
func (h *Handler) DeleteCV(c *gin.Context) {
	if err := h.ProfileService.RemoveCV(c.Request.Context()); err != nil {
		respondError(c, response.CodeInternal, "error.save_failed", err)
		return
	}
	response.Success(c, nil)
}
