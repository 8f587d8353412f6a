// Package permission 角色权限检查
// 按操作登记最低角色，并提供"本人或管理员"的自有资源检查
package permission

import (
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/model/user"
	"github.com/j-marthe/sistema-gestion-archivos-backend/packages/response"
)

// 角色等级常量
// 数值越大权限越高
const (
	RoleLevelAdministrator = 100
	RoleLevelStandard      = 50
	RoleLevelReader        = 10
	RoleLevelUnknown       = 0 // 未知角色
)

// RoleLevelMap 角色名称到等级的映射
var RoleLevelMap = map[string]int{
	user.RoleAdministrator: RoleLevelAdministrator,
	user.RoleStandard:      RoleLevelStandard,
	user.RoleReader:        RoleLevelReader,
}

// Operation 受控操作
type Operation string

const (
	OpDocumentUpload   Operation = "document.upload"
	OpDocumentRead     Operation = "document.read"
	OpDocumentDownload Operation = "document.download"
	OpDocumentDelete   Operation = "document.delete"
	OpMetadataEdit     Operation = "document.metadata"
	OpVersionUpload    Operation = "document.version.upload"
	OpVersionRestore   Operation = "document.version.restore"
	OpAuditList        Operation = "audit.list"
	OpUserList         Operation = "user.list"
	OpUserDelete       Operation = "user.delete"
	OpUserAssignRole   Operation = "user.role"
	OpCategoryCreate   Operation = "category.create"
	OpCategoryList     Operation = "category.list"
)

// requiredRoles 每个操作要求的最低角色，角色等级不低于它即可执行
var requiredRoles = map[Operation]string{
	OpDocumentUpload:   user.RoleStandard,
	OpDocumentRead:     user.RoleReader,
	OpDocumentDownload: user.RoleReader,
	OpDocumentDelete:   user.RoleAdministrator,
	OpMetadataEdit:     user.RoleStandard,
	OpVersionUpload:    user.RoleStandard,
	OpVersionRestore:   user.RoleStandard,
	OpAuditList:        user.RoleAdministrator,
	OpUserList:         user.RoleAdministrator,
	OpUserDelete:       user.RoleAdministrator,
	OpUserAssignRole:   user.RoleAdministrator,
	OpCategoryCreate:   user.RoleAdministrator,
	OpCategoryList:     user.RoleReader,
}

// GetRoleLevel 获取角色的权限等级
// 如果角色不存在于映射中，返回 RoleLevelUnknown
func GetRoleLevel(role string) int {
	if level, ok := RoleLevelMap[role]; ok {
		return level
	}
	return RoleLevelUnknown
}

// HasRequiredRole 检查实际角色是否满足所需角色的权限要求
// 未知角色等级为 0，总是被拒绝
func HasRequiredRole(actualRole, requiredRole string) bool {
	level := GetRoleLevel(actualRole)
	return level > RoleLevelUnknown && level >= GetRoleLevel(requiredRole)
}

// IsAdministrator 检查是否是管理员
func IsAdministrator(role string) bool {
	return role == user.RoleAdministrator
}

// Allowed 角色是否可以执行操作，未登记的操作全部拒绝
func Allowed(role string, op Operation) bool {
	required, ok := requiredRoles[op]
	if !ok {
		return false
	}
	return HasRequiredRole(role, required)
}

// Authorize 不允许时返回 ForbiddenError
func Authorize(role string, op Operation) error {
	if Allowed(role, op) {
		return nil
	}
	return response.ForbiddenError("当前角色无权执行此操作")
}

// IsSelfOrAdmin 自有资源检查：本人或管理员
func IsSelfOrAdmin(actorID, actorRole, targetID string) bool {
	if IsAdministrator(actorRole) {
		return true
	}
	return actorID != "" && actorID == targetID
}

// AuthorizeSelf 自有资源检查，不满足时返回 ForbiddenError
func AuthorizeSelf(actorID, actorRole, targetID string) error {
	if IsSelfOrAdmin(actorID, actorRole, targetID) {
		return nil
	}
	return response.ForbiddenError("只能操作自己的资源")
}
