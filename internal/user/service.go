package user

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	userModel "github.com/j-marthe/sistema-gestion-archivos-backend/internal/model/user"
	"github.com/j-marthe/sistema-gestion-archivos-backend/packages/database"
	"github.com/j-marthe/sistema-gestion-archivos-backend/packages/response"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// UserService 账号存储：创建、查询、更新、删除与角色分配
type UserService struct {
	repo   *UserRepository
	hasher PasswordHasher
	logger *zap.Logger
}

func NewUserService(repo *UserRepository, hasher PasswordHasher, logger *zap.Logger) *UserService {
	return &UserService{repo: repo, hasher: hasher, logger: logger}
}

// NormalizeEmail 邮箱统一小写去空格
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail 邮箱格式校验
func ValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// Exists 邮箱是否已注册
func (s *UserService) Exists(ctx context.Context, email string) (bool, error) {
	exists, err := s.repo.ExistsByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return false, response.DependencyError("查询账号失败", err)
	}
	return exists, nil
}

// Create 创建账号，邮箱唯一性由唯一索引保证
func (s *UserService) Create(ctx context.Context, in CreateInput) (*userModel.User, error) {
	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)
	if name == "" {
		return nil, response.ValidationError("名称不能为空")
	}
	if !ValidEmail(email) {
		return nil, response.ValidationError("邮箱格式不正确")
	}
	if in.Password == "" {
		return nil, response.ValidationError("密码不能为空")
	}

	if _, err := s.repo.GetRoleByID(ctx, in.RoleID); err != nil {
		if database.IsNotFound(err) {
			return nil, response.NotFoundError("角色不存在")
		}
		return nil, response.DependencyError("查询角色失败", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, response.DependencyError("密码加密失败", err)
	}

	u := &userModel.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		RoleID:       in.RoleID,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if database.IsDuplicateKey(err) {
			return nil, response.ConflictError("邮箱已被注册", err)
		}
		return nil, response.DependencyError("账号创建失败", err)
	}

	s.logger.Info("账号已创建", zap.String("user_id", u.ID), zap.Uint("role_id", u.RoleID))
	return u, nil
}

// GetByEmail 按邮箱查询账号（含凭据哈希，仅供认证使用）
func (s *UserService) GetByEmail(ctx context.Context, email string) (*userModel.User, error) {
	u, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if database.IsNotFound(err) {
			return nil, response.NotFoundError("账号不存在")
		}
		return nil, response.DependencyError("查询账号失败", err)
	}
	return u, nil
}

// GetByID 按 ID 查询账号
func (s *UserService) GetByID(ctx context.Context, id string) (*Profile, error) {
	p, err := s.repo.GetProfile(ctx, id)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, response.NotFoundError("账号不存在")
		}
		return nil, response.DependencyError("查询账号失败", err)
	}
	return p, nil
}

// ListAll 所有账号及其角色名称
func (s *UserService) ListAll(ctx context.Context) ([]Profile, error) {
	profiles, err := s.repo.ListProfiles(ctx)
	if err != nil {
		return nil, response.DependencyError("查询账号列表失败", err)
	}
	return profiles, nil
}

// Update 部分更新：名称与邮箱总是更新，只有提供新密码时才更新凭据
func (s *UserService) Update(ctx context.Context, id string, req UpdateRequest) (*Profile, error) {
	name := strings.TrimSpace(req.Name)
	email := NormalizeEmail(req.Email)
	if name == "" {
		return nil, response.ValidationError("名称不能为空")
	}
	if !ValidEmail(email) {
		return nil, response.ValidationError("邮箱格式不正确")
	}

	fields := map[string]any{
		"name":  name,
		"email": email,
	}
	if req.Password != "" {
		hash, err := s.hasher.Hash(req.Password)
		if err != nil {
			return nil, response.DependencyError("密码加密失败", err)
		}
		fields["password_hash"] = hash
	}

	rows, err := s.repo.Updates(ctx, id, fields)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return nil, response.ConflictError("邮箱已被注册", err)
		}
		return nil, response.DependencyError("更新账号失败", err)
	}
	if rows == 0 {
		return nil, response.NotFoundError("账号不存在")
	}

	return s.GetByID(ctx, id)
}

// Delete 删除账号，仍拥有文档的账号不能删除
func (s *UserService) Delete(ctx context.Context, id string) error {
	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return response.ConflictError("账号仍拥有文档，无法删除", err)
		}
		return response.DependencyError("删除账号失败", err)
	}
	if rows == 0 {
		return response.NotFoundError("账号不存在")
	}

	s.logger.Info("账号已删除", zap.String("user_id", id))
	return nil
}

// AssignRole 分配角色
func (s *UserService) AssignRole(ctx context.Context, id string, roleID uint) (*Profile, error) {
	if _, err := s.repo.GetRoleByID(ctx, roleID); err != nil {
		if database.IsNotFound(err) {
			return nil, response.NotFoundError("角色不存在")
		}
		return nil, response.DependencyError("查询角色失败", err)
	}

	rows, err := s.repo.Updates(ctx, id, map[string]any{"role_id": roleID})
	if err != nil {
		return nil, response.DependencyError("分配角色失败", err)
	}
	if rows == 0 {
		return nil, response.NotFoundError("账号不存在")
	}

	s.logger.Info("角色已分配", zap.String("user_id", id), zap.Uint("role_id", roleID))
	return s.GetByID(ctx, id)
}

// RoleIDByName 按名称查询角色 ID
func (s *UserService) RoleIDByName(ctx context.Context, name string) (uint, error) {
	role, err := s.repo.GetRoleByName(ctx, name)
	if err != nil {
		if database.IsNotFound(err) {
			return 0, response.NotFoundError("角色不存在")
		}
		return 0, response.DependencyError("查询角色失败", err)
	}
	return role.ID, nil
}

// ListRoles 角色列表
func (s *UserService) ListRoles(ctx context.Context) ([]userModel.Role, error) {
	roles, err := s.repo.ListRoles(ctx)
	if err != nil {
		return nil, response.DependencyError("查询角色列表失败", err)
	}
	return roles, nil
}

// Authenticate 校验邮箱和密码，失败时统一返回未认证，不区分账号不存在与密码错误
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*Profile, error) {
	invalid := response.NewBusinessError(
		response.WithErrorCode(response.Unauthorized),
		response.WithErrorMessage("邮箱或密码错误"),
	)

	u, err := s.GetByEmail(ctx, email)
	if err != nil {
		if response.IsCode(err, response.NotFound) {
			return nil, invalid
		}
		return nil, err
	}
	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return nil, invalid
	}
	return s.GetByID(ctx, u.ID)
}
