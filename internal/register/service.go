package register

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	userModel "github.com/j-marthe/sistema-gestion-archivos-backend/internal/model/user"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/user"
	"github.com/j-marthe/sistema-gestion-archivos-backend/packages/response"
)

var (
	upperRegex = regexp.MustCompile(`[A-Z]`)
	lowerRegex = regexp.MustCompile(`[a-z]`)
	digitRegex = regexp.MustCompile(`[0-9]`)
)

type RegisterService struct {
	users *user.UserService
}

func NewRegisterService(users *user.UserService) *RegisterService {
	return &RegisterService{users: users}
}

// Register 自助注册，角色固定为 Standard User
func (s *RegisterService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	// 1. 参数校验
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	// 2. 查询默认角色
	roleID, err := s.users.RoleIDByName(ctx, userModel.RoleStandard)
	if err != nil {
		return nil, err
	}

	// 3. 创建账号，邮箱冲突由唯一索引报告
	created, err := s.users.Create(ctx, user.CreateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		RoleID:   roleID,
	})
	if err != nil {
		return nil, err
	}

	profile, err := s.users.GetByID(ctx, created.ID)
	if err != nil {
		return nil, err
	}
	return &RegisterResponse{User: *profile}, nil
}

// 参数校验
func (s *RegisterService) validateRequest(req RegisterRequest) *response.BusinessError {
	// 校验名称
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return response.ValidationError("名称不能为空")
	}
	if utf8.RuneCountInString(name) > 100 {
		return response.ValidationError("名称长度不能超过100个字符")
	}

	// 校验邮箱
	if strings.TrimSpace(req.Email) == "" {
		return response.ValidationError("邮箱不能为空")
	}
	if !user.ValidEmail(user.NormalizeEmail(req.Email)) {
		return response.ValidationError("邮箱格式不正确")
	}

	// 校验密码
	if req.Password == "" {
		return response.ValidationError("密码不能为空")
	}
	if len(req.Password) < 6 || len(req.Password) > 100 {
		return response.ValidationError("密码长度必须在6-100个字符之间")
	}
	if req.ConfirmPassword != req.Password {
		return response.ValidationError("两次密码输入不一致")
	}
	if !isStrongPassword(req.Password) {
		return response.ValidationError("密码强度不足，需包含大小写字母、数字")
	}

	return nil
}

// 密码强度校验
func isStrongPassword(password string) bool {
	return upperRegex.MatchString(password) &&
		lowerRegex.MatchString(password) &&
		digitRegex.MatchString(password)
}
