package category

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/dto"
)

type CategoryHandler struct {
	service *CategoryService
	logger  *zap.Logger
}

func NewCategoryHandler(service *CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{service: service, logger: logger}
}

// Create 创建分类
// @Summary 创建分类（管理员）
// @Tags Category
// @Accept json
// @Produce json
// @Param request body CreateRequest true "分类"
// @Success 201 {object} response.Response{data=document.Category}
// @Failure 409 {object} response.Response "分类已存在"
// @Router /categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	category, err := h.service.Create(c.Request.Context(), req.Name)
	if err != nil {
		dto.HandleError(c, h.logger, err)
		return
	}
	dto.CreatedResponse(c, category)
}

// List 分类列表
// @Summary 分类列表
// @Tags Category
// @Produce json
// @Success 200 {object} response.Response{data=response.ListData{items=[]document.Category}}
// @Router /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.service.List(c.Request.Context())
	if err != nil {
		dto.HandleError(c, h.logger, err)
		return
	}
	dto.ListResponse(c, categories, len(categories))
}
