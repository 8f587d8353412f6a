package document

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/dto"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/middleware"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/permission"
	"github.com/j-marthe/sistema-gestion-archivos-backend/packages/response"
)

type DocumentHandler struct {
	service        *DocumentService
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewDocumentHandler maxUploadMB 为 0 时不限制上传大小
func NewDocumentHandler(service *DocumentService, maxUploadMB int, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		service:        service,
		maxUploadBytes: int64(maxUploadMB) << 20,
		logger:         logger,
	}
}

// Upload 上传文档
// @Summary 上传文档
// @Tags Document
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "文件"
// @Param name formData string false "文档名称，默认使用文件名"
// @Param category_id formData int true "分类ID"
// @Param tags formData string false "标签，逗号分隔"
// @Param metadata formData string false "元数据 JSON 对象"
// @Success 201 {object} response.Response{data=DocumentDetail}
// @Router /documents [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		dto.HandleError(c, h.logger, response.ValidationError("请选择要上传的文件"))
		return
	}
	if err := h.checkSize(file); err != nil {
		dto.HandleError(c, h.logger, err)
		return
	}

	categoryID, err := strconv.ParseUint(c.PostForm("category_id"), 10, 64)
	if err != nil || categoryID == 0 {
		dto.HandleError(c, h.logger, response.ValidationError("参数 'category_id' 无效"))
		return
	}

	metadata := map[string]string{}
	if raw := strings.TrimSpace(c.PostForm("metadata")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
			dto.HandleError(c, h.logger, response.ValidationError("参数 'metadata' 必须是字符串键值对的 JSON 对象"))
			return
		}
	}

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		name = file.Filename
	}

	content, err := file.Open()
	if err != nil {
		dto.HandleError(c, h.logger, response.ValidationError("无法读取上传的文件"))
		return
	}
	defer content.Close()

	detail, err := h.service.Upload(c.Request.Context(), UploadInput{
		Name:        name,
		Extension:   filepath.Ext(file.Filename),
		CategoryID:  uint(categoryID),
		OwnerID:     middleware.CurrentUser(c).UserID,
		Tags:        splitList(c.PostFormArray("tags")),
		Metadata:    metadata,
		Content:     content,
		Size:        file.Size,
		ContentType: file.Header.Get("Content-Type"),
	})
	if err != nil {
		dto.HandleError(c, h.logger, err)
		return
	}
	dto.CreatedResponse(c, detail)
}

// List 文档列表
// @Summary 文档列表
// @Tags Document
// @Produce json
// @Success 200 {object} response.Response{data=response.ListData{items=[]DocumentView}}
// @Router /documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.service.List(c.Request.Context())
	if err != nil {
		dto.HandleError(c, h.logger, err)
		return
	}
	dto.ListResponse(c, docs, len(docs))
}

// ListByOwner 某个账号的文档
// @Summary 账号的文档（本人或管理员）
// @Tags Document
// @Produce json
// @Param id path string true "账号ID"
// @Success 200 {object} response.Response{data=response.ListData{items=[]DocumentView}}
// @Router /users/{id}/documents [get]
func (h *DocumentHandler) ListByOwner(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	ownerID := c.Param("id")
	if err := permission.AuthorizeSelf(actor.UserID, actor.Role, ownerID); err != nil {
		dto.HandleError(c, h.logger, err)
		return
	}

	docs, err := h.service.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		dto.HandleError(c, h.logger, err)
		return
	}
	dto.ListResponse(c, docs, len(docs))
}

// Search 搜索文档
// @Summary 搜索文档
// @Description 各条件之间为 AND，多个标签之间为 OR
// @Tags Document
// @Produce json
// @Param name query string false "名称包含"
// @Param owner query string false "所有者名称包含"
// @Param category_id query int false "分类ID"
// @Param tags query string false "标签，逗号分隔"
// @Param from query string false "上传时间起（RFC3339 或 YYYY-MM-DD）"
// @Param to query string false "上传时间止（RFC3339 或 YYYY-MM-DD）"
// @Param metadata query string false "元数据值包含"
// @Success 200 {object} response.Response{data=response.ListData{items=[]DocumentView}}
// @Router /documents/search [get]
func (h *DocumentHandler) Search(c *gin.Context) {
	from, to, err := dto.ParseTimeRange(c.Query("from"), c.Query("to"))
	if err != nil {
		dto.HandleError(c, h.logger, err)
		return
	}

	filter := SearchFilter{
		Name:     c.Query("name"),
		Owner:    c.Query("owner"),
		Tags:     splitList(c.QueryArray("tags")),
		From:     from,
		To:       to,
		Metadata: c.Query("metadata"),
	}
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			dto.HandleError(c, h.logger, response.ValidationError("参数 'category_id' 无效"))
			return
		}
		categoryID := uint(id)
		filter.CategoryID = &categoryID
	}

	docs, err := h.service.Search(c.Request.Context(), filter)
	if err != nil {
		dto.HandleError(c, h.logger, err)
		return
	}
	dto.ListResponse(c, docs, len(docs))
}

// Detail 文档详情
// @Summary 文档详情
// @Tags Document
// @Produce json
// @Param id path string true "文档ID"
// @Success 200 {object} response.Response{data=DocumentDetail}
// @Router /documents/{id} [get]
func (h *DocumentHandler) Detail(c *gin.Context) {
	detail, err := h.service.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.HandleError(c, h.logger, err)
		return
	}
	dto.SuccessResponse(c, detail)
}

// Download 下载文档当前版本
// @Summary 下载文档
// @Tags Document
// @Produce octet-stream
// @Param id path string true "文档ID"
// @Success 200 {file} file
// @Router /documents/{id}/download [get]
func (h *DocumentHandler) Download(c *gin.Context) {
	result, err := h.service.Download(c.Request.Context(), middleware.CurrentUser(c).UserID, c.Param("id"))
	if err != nil {
		dto.HandleError(c, h.logger, err)
		return
	}
	defer result.Body.Close()

	c.DataFromReader(http.StatusOK, result.Size, result.ContentType, result.Body, map[string]string{
		"Content-Disposition": contentDisposition(result.FileName),
	})
}

// Delete 删除文档
// @Summary 删除文档（管理员）
// @Description 删除元数据、标签关联、所有版本及其存储对象
// @Tags Document
// @Produce json
// @Param id path string true "文档ID"
// @Success 200 {object} response.Response
// @Router /documents/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), middleware.CurrentUser(c).UserID, id); err != nil {
		dto.HandleError(c, h.logger, err)
		return
	}
	dto.SuccessResponse(c, gin.H{"id": id})
}

// ReplaceMetadata 替换元数据
// @Summary 替换元数据
// @Tags Document
// @Accept json
// @Produce json
// @Param id path string true "文档ID"
// @Param request body MetadataRequest true "完整的元数据集合"
// @Success 200 {object} response.Response
// @Router /documents/{id}/metadata [put]
func (h *DocumentHandler) ReplaceMetadata(c *gin.Context) {
	var req MetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	metadata, err := h.service.ReplaceMetadata(c.Request.Context(), middleware.CurrentUser(c).UserID, c.Param("id"), req.Metadata)
	if err != nil {
		dto.HandleError(c, h.logger, err)
		return
	}
	dto.SuccessResponse(c, gin.H{"metadata": metadata})
}

// ListVersions 版本历史
// @Summary 版本历史
// @Tags Document
// @Produce json
// @Param id path string true "文档ID"
// @Success 200 {object} response.Response
// @Router /documents/{id}/versions [get]
func (h *DocumentHandler) ListVersions(c *gin.Context) {
	versions, err := h.service.ListVersions(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.HandleError(c, h.logger, err)
		return
	}
	dto.ListResponse(c, versions, len(versions))
}

// UploadVersion 上传新版本
// @Summary 上传新版本
// @Tags Document
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "文档ID"
// @Param file formData file true "文件"
// @Success 201 {object} response.Response
// @Router /documents/{id}/versions [post]
func (h *DocumentHandler) UploadVersion(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		dto.HandleError(c, h.logger, response.ValidationError("请选择要上传的文件"))
		return
	}
	if err := h.checkSize(file); err != nil {
		dto.HandleError(c, h.logger, err)
		return
	}

	content, err := file.Open()
	if err != nil {
		dto.HandleError(c, h.logger, response.ValidationError("无法读取上传的文件"))
		return
	}
	defer content.Close()

	version, err := h.service.UploadVersion(c.Request.Context(), middleware.CurrentUser(c).UserID, c.Param("id"), ContentInput{
		Content:     content,
		Size:        file.Size,
		ContentType: file.Header.Get("Content-Type"),
	})
	if err != nil {
		dto.HandleError(c, h.logger, err)
		return
	}
	dto.CreatedResponse(c, version)
}

// RestoreVersion 恢复历史版本
// @Summary 恢复历史版本
// @Tags Document
// @Produce json
// @Param id path string true "文档ID"
// @Param number path int true "版本号"
// @Success 200 {object} response.Response
// @Router /documents/{id}/versions/{number}/restore [post]
func (h *DocumentHandler) RestoreVersion(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil || number < 1 {
		dto.HandleError(c, h.logger, response.ValidationError("版本号无效"))
		return
	}

	version, err := h.service.RestoreVersion(c.Request.Context(), middleware.CurrentUser(c).UserID, c.Param("id"), number)
	if err != nil {
		dto.HandleError(c, h.logger, err)
		return
	}
	dto.SuccessResponse(c, version)
}

func (h *DocumentHandler) checkSize(file *multipart.FileHeader) error {
	if file.Size == 0 {
		return response.ValidationError("文件内容不能为空")
	}
	if h.maxUploadBytes > 0 && file.Size > h.maxUploadBytes {
		return response.ValidationError(fmt.Sprintf("文件大小不能超过 %dMB", h.maxUploadBytes>>20))
	}
	return nil
}

// splitList 同时支持重复参数与逗号分隔
func splitList(values []string) []string {
	var result []string
	for _, value := range values {
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				result = append(result, item)
			}
		}
	}
	return result
}

func contentDisposition(name string) string {
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`,
		strings.ReplaceAll(name, `"`, ""), url.PathEscape(name))
}
