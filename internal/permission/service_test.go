package permission

import (
	"testing"

	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/model/user"
	"github.com/j-marthe/sistema-gestion-archivos-backend/packages/response"

	"github.com/stretchr/testify/assert"
)

// TestGetRoleLevel 测试角色等级获取
func TestGetRoleLevel(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		expected int
	}{
		{"administrator", user.RoleAdministrator, RoleLevelAdministrator},
		{"standard user", user.RoleStandard, RoleLevelStandard},
		{"reader", user.RoleReader, RoleLevelReader},
		{"unknown role", "unknown", RoleLevelUnknown},
		{"empty role", "", RoleLevelUnknown},
		{"case sensitive", "administrator", RoleLevelUnknown},
		{"whitespace role", " Reader ", RoleLevelUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetRoleLevel(tt.role))
		})
	}
}

// TestHasRequiredRole 测试角色等级比较
func TestHasRequiredRole(t *testing.T) {
	tests := []struct {
		actual   string
		required string
		want     bool
	}{
		{user.RoleAdministrator, user.RoleStandard, true},
		{user.RoleStandard, user.RoleStandard, true},
		{user.RoleReader, user.RoleStandard, false},
		{"", "", false},
		{"unknown", user.RoleReader, false},
	}

	for _, tt := range tests {
		t.Run(tt.actual+"->"+tt.required, func(t *testing.T) {
			assert.Equal(t, tt.want, HasRequiredRole(tt.actual, tt.required))
		})
	}
}

// TestAllowed 测试操作矩阵
func TestAllowed(t *testing.T) {
	tests := []struct {
		name string
		role string
		op   Operation
		want bool
	}{
		{"管理员可以上传", user.RoleAdministrator, OpDocumentUpload, true},
		{"普通用户可以上传", user.RoleStandard, OpDocumentUpload, true},
		{"读者不能上传", user.RoleReader, OpDocumentUpload, false},
		{"读者可以下载", user.RoleReader, OpDocumentDownload, true},
		{"读者可以查看", user.RoleReader, OpDocumentRead, true},
		{"只有管理员可以删除", user.RoleStandard, OpDocumentDelete, false},
		{"管理员可以删除", user.RoleAdministrator, OpDocumentDelete, true},
		{"普通用户不能查看审计", user.RoleStandard, OpAuditList, false},
		{"管理员可以查看审计", user.RoleAdministrator, OpAuditList, true},
		{"普通用户可以恢复版本", user.RoleStandard, OpVersionRestore, true},
		{"读者不能编辑元数据", user.RoleReader, OpMetadataEdit, false},
		{"未知角色全部拒绝", "guest", OpDocumentRead, false},
		{"未登记的操作全部拒绝", user.RoleAdministrator, Operation("unknown"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(tt.role, tt.op))
		})
	}
}

func TestAuthorize(t *testing.T) {
	assert.NoError(t, Authorize(user.RoleAdministrator, OpUserDelete))

	err := Authorize(user.RoleReader, OpUserDelete)
	assert.True(t, response.IsCode(err, response.Forbidden))
}

// TestIsSelfOrAdmin 测试自有资源检查
func TestIsSelfOrAdmin(t *testing.T) {
	tests := []struct {
		name     string
		actorID  string
		role     string
		targetID string
		want     bool
	}{
		{"本人", "u1", user.RoleReader, "u1", true},
		{"管理员操作他人", "admin", user.RoleAdministrator, "u1", true},
		{"普通用户操作他人", "u2", user.RoleStandard, "u1", false},
		{"空身份", "", user.RoleStandard, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSelfOrAdmin(tt.actorID, tt.role, tt.targetID))
			if tt.want {
				assert.NoError(t, AuthorizeSelf(tt.actorID, tt.role, tt.targetID))
			} else {
				assert.True(t, response.IsCode(AuthorizeSelf(tt.actorID, tt.role, tt.targetID), response.Forbidden))
			}
		})
	}
}
