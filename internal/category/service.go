// Package category 文档分类（平铺的查找表）
package category

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/model/document"
	"github.com/j-marthe/sistema-gestion-archivos-backend/packages/database"
	"github.com/j-marthe/sistema-gestion-archivos-backend/packages/response"
)

type CategoryService struct {
	repo   *CategoryRepository
	logger *zap.Logger
}

func NewCategoryService(repo *CategoryRepository, logger *zap.Logger) *CategoryService {
	return &CategoryService{repo: repo, logger: logger}
}

// Create 名称唯一性由唯一索引保证
func (s *CategoryService) Create(ctx context.Context, name string) (*document.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, response.ValidationError("分类名称不能为空")
	}

	category := &document.Category{Name: name}
	if err := s.repo.Create(ctx, category); err != nil {
		if database.IsDuplicateKey(err) {
			return nil, response.ConflictError("分类已存在", err)
		}
		return nil, response.DependencyError("创建分类失败", err)
	}

	s.logger.Info("分类已创建", zap.Uint("category_id", category.ID), zap.String("name", name))
	return category, nil
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*document.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, response.NotFoundError("分类不存在")
		}
		return nil, response.DependencyError("查询分类失败", err)
	}
	return category, nil
}

func (s *CategoryService) List(ctx context.Context) ([]document.Category, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, response.DependencyError("查询分类失败", err)
	}
	return categories, nil
}
