package refresh

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.RouterGroup, handler *RefreshTokenHandler) {
	r.POST("/refresh", handler.Handle)
}
