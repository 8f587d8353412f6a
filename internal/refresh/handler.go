package refresh

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/dto"
)

// Cookie 名称
const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

type RefreshTokenHandler struct {
	service *RefreshTokenService
	logger  *zap.Logger
}

func NewRefreshTokenHandler(service *RefreshTokenService, logger *zap.Logger) *RefreshTokenHandler {
	return &RefreshTokenHandler{service: service, logger: logger}
}

// Handle 刷新访问令牌
// @Summary 刷新访问令牌
// @Description 使用 Cookie 中的刷新令牌获取新的访问令牌，新的刷新令牌会自动更新到 Cookie 中
// @Tags 认证
// @Produce json
// @Success 200 {object} response.Response{data=RefreshTokenResponse} "成功返回新的访问令牌"
// @Failure 401 {object} response.Response "刷新令牌无效或已过期"
// @Router /auth/refresh [post]
func (h *RefreshTokenHandler) Handle(c *gin.Context) {
	refreshToken, _ := c.Cookie(RefreshTokenCookie)

	result, err := h.service.Rotate(c.Request.Context(), refreshToken)
	if err != nil {
		dto.HandleError(c, h.logger, err)
		return
	}

	SetTokenCookies(c, result.AccessToken, int(result.ExpiresIn), result.RefreshToken, int(h.service.TTL().Seconds()))
	dto.SuccessResponse(c, RefreshTokenResponse{
		AccessToken: result.AccessToken,
		ExpiresIn:   result.ExpiresIn,
	})
}

// SetTokenCookies 写入令牌 Cookie（httpOnly），refreshToken 为空时不写
func SetTokenCookies(c *gin.Context, accessToken string, accessMaxAge int, refreshToken string, refreshMaxAge int) {
	c.SetCookie(AccessTokenCookie, accessToken, accessMaxAge, "/", "", false, true)
	if refreshToken != "" {
		c.SetCookie(RefreshTokenCookie, refreshToken, refreshMaxAge, "/", "", false, true)
	}
}

// ClearTokenCookies 立即过期两个令牌 Cookie
func ClearTokenCookies(c *gin.Context) {
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", false, true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", "", false, true)
}
