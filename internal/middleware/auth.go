package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/dto"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/permission"
	authsdk "github.com/j-marthe/sistema-gestion-archivos-backend/packages/auth-sdk"
	"github.com/j-marthe/sistema-gestion-archivos-backend/packages/response"
)

// 上下文键
const (
	ContextUserID   = "user_id"
	ContextUserName = "user_name"
	ContextEmail    = "email"
	ContextUserRole = "user_role"
)

// parseToken 从 cookie 或 Authorization header 中解析 token
func parseToken(c *gin.Context, secret string) (*authsdk.UserContext, error) {
	// 优先从 cookie 中获取 access_token
	tokenString, err := c.Cookie("access_token")
	if err != nil || tokenString == "" {
		tokenString, err = authsdk.ExtractBearer(c.GetHeader("Authorization"))
		if err != nil {
			return nil, err
		}
	}

	return authsdk.ParseToken(tokenString, secret)
}

// JWTAuth JWT 认证中间件（必需认证）
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := parseToken(c, secret)
		if err != nil {
			msg := "无效的认证令牌"
			switch {
			case errors.Is(err, authsdk.ErrNoToken):
				msg = "未提供认证令牌"
			case errors.Is(err, authsdk.ErrExpiredToken):
				msg = "认证令牌已过期"
			}
			dto.ErrorResponse(c, response.NewBusinessError(
				response.WithErrorCode(response.Unauthorized),
				response.WithErrorMessage(msg),
			))
			c.Abort()
			return
		}

		// 将用户信息存入上下文
		c.Set(ContextUserID, user.UserID)
		c.Set(ContextUserName, user.Name)
		c.Set(ContextEmail, user.Email)
		c.Set(ContextUserRole, user.Role)
		c.Next()
	}
}

// RequireOperation 角色检查，必须放在 JWTAuth 之后
func RequireOperation(op permission.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := permission.Authorize(c.GetString(ContextUserRole), op); err != nil {
			dto.ErrorResponse(c, err.(*response.BusinessError))
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser 读取 JWTAuth 写入的用户信息
func CurrentUser(c *gin.Context) authsdk.UserContext {
	return authsdk.UserContext{
		UserID: c.GetString(ContextUserID),
		Name:   c.GetString(ContextUserName),
		Email:  c.GetString(ContextEmail),
		Role:   c.GetString(ContextUserRole),
	}
}
