package admin

import (
	handlershared "github.com/folio-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getAdminID(c *gin.Context) (uint, bool) {
	return handlershared.GetAdminID(c)
}
