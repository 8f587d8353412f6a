package logout

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/dto"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/refresh"
)

type LogoutHandler struct {
	sessions *refresh.RefreshTokenService
	logger   *zap.Logger
}

func NewLogoutHandler(sessions *refresh.RefreshTokenService, logger *zap.Logger) *LogoutHandler {
	return &LogoutHandler{sessions: sessions, logger: logger}
}

// Logout 退出登录
// @Summary 退出登录
// @Description 撤销 Cookie 中的刷新令牌并清除 access_token / refresh_token Cookie
// @Tags 认证
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *LogoutHandler) Logout(c *gin.Context) {
	refreshToken, _ := c.Cookie(refresh.RefreshTokenCookie)

	if refreshToken != "" {
		if err := h.sessions.Revoke(c.Request.Context(), refreshToken); err != nil {
			dto.HandleError(c, h.logger, err)
			return
		}
	}

	refresh.ClearTokenCookies(c)
	dto.SuccessResponse(c, gin.H{
		"message": "退出成功",
	})
}
