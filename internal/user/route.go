package user

import (
	"github.com/gin-gonic/gin"

	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/middleware"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/permission"
)

// RegisterRoutes auth 为已挂载 JWTAuth 的路由组
func RegisterRoutes(authGroup *gin.RouterGroup, protected *gin.RouterGroup, handler *UserHandler) {
	authGroup.GET("/me", handler.Me)

	users := protected.Group("/users")
	{
		users.GET("", middleware.RequireOperation(permission.OpUserList), handler.ListAll)
		users.GET("/:id", handler.Get)
		users.PUT("/:id", handler.Update)
		users.DELETE("/:id", middleware.RequireOperation(permission.OpUserDelete), handler.Delete)
		users.PUT("/:id/role", middleware.RequireOperation(permission.OpUserAssignRole), handler.AssignRole)
	}

	protected.GET("/roles", handler.ListRoles)
}
