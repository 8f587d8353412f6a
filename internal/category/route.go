package category

import (
	"github.com/gin-gonic/gin"

	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/middleware"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/permission"
)

func RegisterRoutes(r *gin.RouterGroup, handler *CategoryHandler) {
	categories := r.Group("/categories")
	{
		categories.GET("", middleware.RequireOperation(permission.OpCategoryList), handler.List)
		categories.POST("", middleware.RequireOperation(permission.OpCategoryCreate), handler.Create)
	}
}
