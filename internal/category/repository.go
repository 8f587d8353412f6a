package category

import (
	"context"

	"gorm.io/gorm"

	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/model/document"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, category *document.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *CategoryRepository) GetByID(ctx context.Context, id uint) (*document.Category, error) {
	var category document.Category
	err := r.db.WithContext(ctx).First(&category, id).Error
	return &category, err
}

func (r *CategoryRepository) List(ctx context.Context) ([]document.Category, error) {
	var categories []document.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}
