package login

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/dto"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/refresh"
	"github.com/j-marthe/sistema-gestion-archivos-backend/packages/response"
)

type LoginHandler struct {
	service    *LoginService
	refreshTTL int
	logger     *zap.Logger
}

// NewLoginHandler refreshTTL 为刷新令牌 Cookie 的有效期（秒）
func NewLoginHandler(service *LoginService, refreshTTL int, logger *zap.Logger) *LoginHandler {
	return &LoginHandler{service: service, refreshTTL: refreshTTL, logger: logger}
}

// Handle 登录
// @Summary 邮箱密码登录
// @Description 返回访问令牌，同时写入 access_token / refresh_token Cookie
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录信息"
// @Success 200 {object} response.Response{data=LoginResponse}
// @Failure 401 {object} response.Response "邮箱或密码错误"
// @Router /auth/login [post]
func (h *LoginHandler) Handle(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ErrorResponse(c, response.NewBusinessError(
			response.WithErrorCode(response.ParseError),
			response.WithErrorMessage("请检查参数"),
		))
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		dto.HandleError(c, h.logger, err)
		return
	}

	refresh.SetTokenCookies(c, result.AccessToken, int(result.ExpiresIn), result.RefreshToken, h.refreshTTL)
	dto.SuccessResponse(c, result.LoginResponse)
}
