package audit

import (
	"github.com/gin-gonic/gin"

	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/middleware"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/permission"
)

func RegisterRoutes(r *gin.RouterGroup, handler *AuditHandler) {
	r.GET("/audit", middleware.RequireOperation(permission.OpAuditList), handler.List)
}
