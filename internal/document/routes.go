package document

import (
	"github.com/gin-gonic/gin"

	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/middleware"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/permission"
)

// RegisterRoutes r 为已挂载 JWTAuth 的路由组
func RegisterRoutes(r *gin.RouterGroup, handler *DocumentHandler) {
	read := middleware.RequireOperation(permission.OpDocumentRead)

	documents := r.Group("/documents")
	{
		documents.POST("", middleware.RequireOperation(permission.OpDocumentUpload), handler.Upload)
		documents.GET("", read, handler.List)
		documents.GET("/search", read, handler.Search)
		documents.GET("/:id", read, handler.Detail)
		documents.GET("/:id/download", middleware.RequireOperation(permission.OpDocumentDownload), handler.Download)
		documents.DELETE("/:id", middleware.RequireOperation(permission.OpDocumentDelete), handler.Delete)
		documents.PUT("/:id/metadata", middleware.RequireOperation(permission.OpMetadataEdit), handler.ReplaceMetadata)
		documents.GET("/:id/versions", read, handler.ListVersions)
		documents.POST("/:id/versions", middleware.RequireOperation(permission.OpVersionUpload), handler.UploadVersion)
		documents.POST("/:id/versions/:number/restore", middleware.RequireOperation(permission.OpVersionRestore), handler.RestoreVersion)
	}

	r.GET("/users/:id/documents", read, handler.ListByOwner)
}
