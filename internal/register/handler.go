package register

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/dto"
	"github.com/j-marthe/sistema-gestion-archivos-backend/packages/response"
)

type RegisterHandler struct {
	service *RegisterService
	logger  *zap.Logger
}

func NewRegisterHandler(service *RegisterService, logger *zap.Logger) *RegisterHandler {
	return &RegisterHandler{service: service, logger: logger}
}

// Handle 注册
// @Summary 注册账号
// @Description 自助注册，新账号角色为 Standard User
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "注册信息"
// @Success 201 {object} response.Response{data=RegisterResponse}
// @Failure 409 {object} response.Response "邮箱已被注册"
// @Router /auth/register [post]
func (h *RegisterHandler) Handle(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ErrorResponse(c, response.NewBusinessError(
			response.WithErrorCode(response.ParseError),
			response.WithErrorMessage("请检查参数"),
		))
		return
	}

	result, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		dto.HandleError(c, h.logger, err)
		return
	}

	dto.CreatedResponse(c, result)
}
