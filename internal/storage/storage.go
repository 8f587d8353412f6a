// Package storage 对象存储抽象，文档内容只通过这里读写
package storage

import (
	"context"
	"errors"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrInvalidName    = errors.New("invalid object name")
)

// Object 读取到的对象，调用方负责关闭 Body
type Object struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
}

// Storage 对象存储
// Put 返回不透明的存储定位符；Get/Delete 接收存储端名称，可由 NameFromPointer 从定位符得到
// Delete 在对象不存在时返回 false 且不报错
type Storage interface {
	Put(ctx context.Context, name string, body io.Reader, size int64, contentType string) (string, error)
	Get(ctx context.Context, name string) (*Object, error)
	Delete(ctx context.Context, name string) (bool, error)
}

// NewObjectName 生成新的存储端名称：uuid + 小写扩展名
func NewObjectName(extension string) string {
	ext := strings.ToLower(strings.TrimSpace(extension))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return uuid.NewString() + ext
}

// NameFromPointer 从定位符中取出存储端名称（URL 路径的最后一段）
func NameFromPointer(pointer string) string {
	if u, err := url.Parse(pointer); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(pointer)
}

func validName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return ErrInvalidName
	}
	return nil
}
