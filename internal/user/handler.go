package user

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/dto"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/middleware"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/permission"
)

// SessionRevoker 撤销账号的刷新令牌
type SessionRevoker interface {
	RevokeAll(ctx context.Context, userID string) error
}

type UserHandler struct {
	service  *UserService
	sessions SessionRevoker
	logger   *zap.Logger
}

func NewUserHandler(service *UserService, sessions SessionRevoker, logger *zap.Logger) *UserHandler {
	return &UserHandler{service: service, sessions: sessions, logger: logger}
}

// revokeSessions 撤销失败只记日志，访问令牌到期后自然失效
func (h *UserHandler) revokeSessions(c *gin.Context, userID string) {
	if h.sessions == nil {
		return
	}
	if err := h.sessions.RevokeAll(c.Request.Context(), userID); err != nil {
		h.logger.Warn("撤销会话失败", zap.String("user_id", userID), zap.Error(err))
	}
}

// Me 当前登录账号
// @Summary 获取当前登录账号
// @Tags 认证
// @Produce json
// @Success 200 {object} response.Response{data=Profile}
// @Router /auth/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	profile, err := h.service.GetByID(c.Request.Context(), middleware.CurrentUser(c).UserID)
	if err != nil {
		dto.HandleError(c, h.logger, err)
		return
	}
	dto.SuccessResponse(c, profile)
}

// ListAll 账号列表
// @Summary 账号列表（管理员）
// @Tags User
// @Produce json
// @Success 200 {object} response.Response{data=response.ListData{items=[]Profile}}
// @Router /users [get]
func (h *UserHandler) ListAll(c *gin.Context) {
	profiles, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		dto.HandleError(c, h.logger, err)
		return
	}
	dto.ListResponse(c, profiles, len(profiles))
}

// Get 账号详情
// @Summary 账号详情（本人或管理员）
// @Tags User
// @Produce json
// @Param id path string true "账号ID"
// @Success 200 {object} response.Response{data=Profile}
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id := c.Param("id")
	if err := permission.AuthorizeSelf(actor.UserID, actor.Role, id); err != nil {
		dto.HandleError(c, h.logger, err)
		return
	}

	profile, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, h.logger, err)
		return
	}
	dto.SuccessResponse(c, profile)
}

// Update 更新账号资料
// @Summary 更新账号（本人或管理员）
// @Tags User
// @Accept json
// @Produce json
// @Param id path string true "账号ID"
// @Param request body UpdateRequest true "账号资料"
// @Success 200 {object} response.Response{data=Profile}
// @Router /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id := c.Param("id")
	if err := permission.AuthorizeSelf(actor.UserID, actor.Role, id); err != nil {
		dto.HandleError(c, h.logger, err)
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	profile, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		dto.HandleError(c, h.logger, err)
		return
	}
	if req.Password != "" {
		h.revokeSessions(c, id)
	}
	dto.SuccessResponse(c, profile)
}

// Delete 删除账号
// @Summary 删除账号（管理员）
// @Tags User
// @Produce json
// @Param id path string true "账号ID"
// @Success 200 {object} response.Response
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		dto.HandleError(c, h.logger, err)
		return
	}
	h.revokeSessions(c, id)
	dto.SuccessResponse(c, gin.H{"id": id})
}

// AssignRole 分配角色
// @Summary 分配角色（管理员）
// @Tags User
// @Accept json
// @Produce json
// @Param id path string true "账号ID"
// @Param request body AssignRoleRequest true "角色"
// @Success 200 {object} response.Response{data=Profile}
// @Router /users/{id}/role [put]
func (h *UserHandler) AssignRole(c *gin.Context) {
	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	profile, err := h.service.AssignRole(c.Request.Context(), c.Param("id"), req.RoleID)
	if err != nil {
		dto.HandleError(c, h.logger, err)
		return
	}
	dto.SuccessResponse(c, profile)
}

// ListRoles 角色列表
// @Summary 角色列表
// @Tags User
// @Produce json
// @Success 200 {object} response.Response
// @Router /roles [get]
func (h *UserHandler) ListRoles(c *gin.Context) {
	roles, err := h.service.ListRoles(c.Request.Context())
	if err != nil {
		dto.HandleError(c, h.logger, err)
		return
	}
	dto.ListResponse(c, roles, len(roles))
}
