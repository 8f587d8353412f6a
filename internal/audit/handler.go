package audit

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/dto"
)

type AuditHandler struct {
	service *AuditService
	logger  *zap.Logger
}

func NewAuditHandler(service *AuditService, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{service: service, logger: logger}
}

// List 审计记录
// @Summary 审计记录（管理员）
// @Description 按时间倒序返回审计记录，已删除的文档显示为 [deleted]
// @Tags Audit
// @Produce json
// @Param from query string false "开始时间（RFC3339 或 YYYY-MM-DD）"
// @Param to query string false "结束时间（RFC3339 或 YYYY-MM-DD，纯日期包含当天）"
// @Success 200 {object} response.Response{data=response.ListData{items=[]EntryView}}
// @Router /audit [get]
func (h *AuditHandler) List(c *gin.Context) {
	from, to, err := dto.ParseTimeRange(c.Query("from"), c.Query("to"))
	if err != nil {
		dto.HandleError(c, h.logger, err)
		return
	}

	entries, err := h.service.List(c.Request.Context(), ListFilter{From: from, To: to})
	if err != nil {
		dto.HandleError(c, h.logger, err)
		return
	}
	dto.ListResponse(c, entries, len(entries))
}
