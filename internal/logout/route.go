package logout

import "github.com/gin-gonic/gin"

// RegisterRoutes 退出登录不需要认证中间件
func RegisterRoutes(r *gin.RouterGroup, handler *LogoutHandler) {
	r.POST("/logout", handler.Logout)
}
