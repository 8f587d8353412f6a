package login

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.RouterGroup, handler *LoginHandler) {
	r.POST("/login", handler.Handle)
}
