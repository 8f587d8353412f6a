package register

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.RouterGroup, handler *RegisterHandler) {
	r.POST("/register", handler.Handle)
}
