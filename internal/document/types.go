package document

import (
	"io"
	"time"

	documentModel "github.com/j-marthe/sistema-gestion-archivos-backend/internal/model/document"
)

// UploadInput 上传文档
type UploadInput struct {
	Name        string
	Extension   string
	CategoryID  uint
	OwnerID     string
	Tags        []string
	Metadata    map[string]string
	Content     io.Reader
	Size        int64
	ContentType string
}

// ContentInput 上传新版本
type ContentInput struct {
	Content     io.Reader
	Size        int64
	ContentType string
}

// DocumentView 文档列表项：基础信息、所有者与分类名称、标签与元数据
type DocumentView struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Extension      string            `json:"extension"`
	StoragePointer string            `json:"storage_pointer"`
	ContentType    string            `json:"content_type"`
	Size           int64             `json:"size"`
	UploadedAt     time.Time         `json:"uploaded_at"`
	OwnerID        string            `json:"owner_id"`
	OwnerName      string            `json:"owner_name"`
	CategoryID     uint              `json:"category_id"`
	CategoryName   string            `json:"category_name"`
	Tags           []string          `json:"tags"`
	Metadata       map[string]string `json:"metadata"`
}

// DocumentDetail 文档详情，包含版本历史
type DocumentDetail struct {
	DocumentView
	Versions []documentModel.Version `json:"versions"`
}

// DownloadResult 下载内容，调用方负责关闭 Body
type DownloadResult struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.ReadCloser
}

// SearchFilter 搜索条件，全部为空时返回所有文档
type SearchFilter struct {
	Name       string
	Owner      string
	CategoryID *uint
	Tags       []string
	From       *time.Time
	To         *time.Time
	Metadata   string
}

// MetadataRequest 替换元数据
type MetadataRequest struct {
	Metadata map[string]string `json:"metadata" binding:"required"`
}

// documentRow 文档与所有者、分类的关联查询结果
type documentRow struct {
	ID             string
	Name           string
	Extension      string
	StoragePointer string
	ContentType    string
	Size           int64
	UploadedAt     time.Time
	OwnerID        string
	OwnerName      *string
	CategoryID     uint
	CategoryName   *string
}

func (r documentRow) toView() DocumentView {
	view := DocumentView{
		ID:             r.ID,
		Name:           r.Name,
		Extension:      r.Extension,
		StoragePointer: r.StoragePointer,
		ContentType:    r.ContentType,
		Size:           r.Size,
		UploadedAt:     r.UploadedAt,
		OwnerID:        r.OwnerID,
		CategoryID:     r.CategoryID,
		Tags:           []string{},
		Metadata:       map[string]string{},
	}
	if r.OwnerName != nil {
		view.OwnerName = *r.OwnerName
	}
	if r.CategoryName != nil {
		view.CategoryName = *r.CategoryName
	}
	return view
}
