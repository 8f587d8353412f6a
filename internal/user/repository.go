package user

import (
	"context"

	"gorm.io/gorm"

	userModel "github.com/j-marthe/sistema-gestion-archivos-backend/internal/model/user"
)

// UserRepository 账号与角色数据访问层
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// ===== 账号 =====

func (r *UserRepository) Create(ctx context.Context, u *userModel.User) error {
	return r.db.WithContext(ctx).Omit("Role").Create(u).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*userModel.User, error) {
	var u userModel.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	return &u, err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*userModel.User, error) {
	var u userModel.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	return &u, err
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&userModel.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// GetProfile 账号信息连同角色名称
func (r *UserRepository) GetProfile(ctx context.Context, id string) (*Profile, error) {
	var p Profile
	err := r.profileQuery(ctx).Where("u.id = ?", id).Take(&p).Error
	return &p, err
}

// ListProfiles 所有账号，按注册时间排序
func (r *UserRepository) ListProfiles(ctx context.Context) ([]Profile, error) {
	var profiles []Profile
	err := r.profileQuery(ctx).Order("u.registered_at ASC").Scan(&profiles).Error
	return profiles, err
}

func (r *UserRepository) profileQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("users AS u").
		Select("u.id, u.name, u.email, u.role_id, r.name AS role, u.registered_at").
		Joins("LEFT JOIN roles AS r ON r.id = u.role_id")
}

// Updates 部分更新，返回受影响行数
func (r *UserRepository) Updates(ctx context.Context, id string, fields map[string]any) (int64, error) {
	result := r.db.WithContext(ctx).Model(&userModel.User{}).Where("id = ?", id).Updates(fields)
	return result.RowsAffected, result.Error
}

func (r *UserRepository) Delete(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&userModel.User{})
	return result.RowsAffected, result.Error
}

// ===== 角色 =====

func (r *UserRepository) GetRoleByID(ctx context.Context, id uint) (*userModel.Role, error) {
	var role userModel.Role
	err := r.db.WithContext(ctx).First(&role, id).Error
	return &role, err
}

func (r *UserRepository) GetRoleByName(ctx context.Context, name string) (*userModel.Role, error) {
	var role userModel.Role
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error
	return &role, err
}

func (r *UserRepository) ListRoles(ctx context.Context) ([]userModel.Role, error) {
	var roles []userModel.Role
	err := r.db.WithContext(ctx).Order("id ASC").Find(&roles).Error
	return roles, err
}
