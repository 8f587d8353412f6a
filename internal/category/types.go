package category

// CreateRequest 创建分类
type CreateRequest struct {
	Name string `json:"name" binding:"required,max=100" example:"Finanzas"`
}
