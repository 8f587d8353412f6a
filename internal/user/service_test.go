package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/model/document"
	userModel "github.com/j-marthe/sistema-gestion-archivos-backend/internal/model/user"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/testutils"
	"github.com/j-marthe/sistema-gestion-archivos-backend/packages/response"

	"gorm.io/gorm"
)

func setupService(t *testing.T) (*UserService, *gorm.DB) {
	db := testutils.SetupTestDB(t)
	hasher := &BcryptHasher{Cost: bcrypt.MinCost}
	return NewUserService(NewUserRepository(db), hasher, zap.NewNop()), db
}

func TestUserService_Create(t *testing.T) {
	service, db := setupService(t)
	ctx := context.Background()
	standard := testutils.RoleID(db, userModel.RoleStandard)

	t.Run("创建成功，邮箱转为小写", func(t *testing.T) {
		u, err := service.Create(ctx, CreateInput{
			Name:     "Alice",
			Email:    "  Alice@Example.com ",
			Password: "Password123",
			RoleID:   standard,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, u.ID)
		assert.Equal(t, "alice@example.com", u.Email)
		assert.NotEqual(t, "Password123", u.PasswordHash)
		assert.False(t, u.RegisteredAt.IsZero())
	})

	t.Run("重复邮箱返回冲突", func(t *testing.T) {
		_, err := service.Create(ctx, CreateInput{
			Name:     "Alice 2",
			Email:    "alice@example.com",
			Password: "Password123",
			RoleID:   standard,
		})
		require.Error(t, err)
		assert.True(t, response.IsCode(err, response.Conflict))
	})

	t.Run("角色不存在", func(t *testing.T) {
		_, err := service.Create(ctx, CreateInput{
			Name:     "Bob",
			Email:    "bob@example.com",
			Password: "Password123",
			RoleID:   9999,
		})
		assert.True(t, response.IsCode(err, response.NotFound))
	})

	t.Run("参数校验", func(t *testing.T) {
		_, err := service.Create(ctx, CreateInput{Name: " ", Email: "x@example.com", Password: "p", RoleID: standard})
		assert.True(t, response.IsCode(err, response.InvalidParameter))

		_, err = service.Create(ctx, CreateInput{Name: "x", Email: "invalid", Password: "p", RoleID: standard})
		assert.True(t, response.IsCode(err, response.InvalidParameter))

		_, err = service.Create(ctx, CreateInput{Name: "x", Email: "x@example.com", RoleID: standard})
		assert.True(t, response.IsCode(err, response.InvalidParameter))
	})
}

func TestUserService_GetAndList(t *testing.T) {
	service, db := setupService(t)
	ctx := context.Background()

	admin := testutils.CreateTestUser(db, testutils.WithRole(userModel.RoleAdministrator))
	reader := testutils.CreateTestUser(db, testutils.WithRole(userModel.RoleReader))

	profile, err := service.GetByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, admin.Email, profile.Email)
	assert.Equal(t, userModel.RoleAdministrator, profile.Role)

	_, err = service.GetByID(ctx, "missing")
	assert.True(t, response.IsCode(err, response.NotFound))

	profiles, err := service.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	roles := map[string]string{}
	for _, p := range profiles {
		roles[p.ID] = p.Role
	}
	assert.Equal(t, userModel.RoleReader, roles[reader.ID])
}

func TestUserService_Update(t *testing.T) {
	service, db := setupService(t)
	ctx := context.Background()

	u := testutils.CreateTestUser(db)
	other := testutils.CreateTestUser(db)

	t.Run("不提供密码时保留原凭据", func(t *testing.T) {
		profile, err := service.Update(ctx, u.ID, UpdateRequest{Name: "Renamed", Email: "Renamed@Example.com"})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", profile.Name)
		assert.Equal(t, "renamed@example.com", profile.Email)

		_, err = service.Authenticate(ctx, "renamed@example.com", testutils.TestPassword)
		assert.NoError(t, err)
	})

	t.Run("提供密码时更新凭据", func(t *testing.T) {
		_, err := service.Update(ctx, u.ID, UpdateRequest{Name: "Renamed", Email: "renamed@example.com", Password: "NewPassword1"})
		require.NoError(t, err)

		_, err = service.Authenticate(ctx, "renamed@example.com", testutils.TestPassword)
		assert.True(t, response.IsCode(err, response.Unauthorized))

		_, err = service.Authenticate(ctx, "renamed@example.com", "NewPassword1")
		assert.NoError(t, err)
	})

	t.Run("邮箱与他人重复", func(t *testing.T) {
		_, err := service.Update(ctx, u.ID, UpdateRequest{Name: "Renamed", Email: other.Email})
		assert.True(t, response.IsCode(err, response.Conflict))
	})

	t.Run("账号不存在", func(t *testing.T) {
		_, err := service.Update(ctx, "missing", UpdateRequest{Name: "x", Email: "x@example.com"})
		assert.True(t, response.IsCode(err, response.NotFound))
	})
}

func TestUserService_AssignRole(t *testing.T) {
	service, db := setupService(t)
	ctx := context.Background()

	u := testutils.CreateTestUser(db)
	readerID := testutils.RoleID(db, userModel.RoleReader)

	profile, err := service.AssignRole(ctx, u.ID, readerID)
	require.NoError(t, err)
	assert.Equal(t, userModel.RoleReader, profile.Role)

	_, err = service.AssignRole(ctx, u.ID, 9999)
	assert.True(t, response.IsCode(err, response.NotFound))

	_, err = service.AssignRole(ctx, "missing", readerID)
	assert.True(t, response.IsCode(err, response.NotFound))
}

func TestUserService_Delete(t *testing.T) {
	service, db := setupService(t)
	ctx := context.Background()

	t.Run("删除成功", func(t *testing.T) {
		u := testutils.CreateTestUser(db)
		require.NoError(t, service.Delete(ctx, u.ID))

		_, err := service.GetByID(ctx, u.ID)
		assert.True(t, response.IsCode(err, response.NotFound))
	})

	t.Run("账号不存在", func(t *testing.T) {
		err := service.Delete(ctx, "missing")
		assert.True(t, response.IsCode(err, response.NotFound))
	})

	t.Run("仍拥有文档时冲突", func(t *testing.T) {
		owner := testutils.CreateTestUser(db)
		category := testutils.CreateTestCategory(db)
		doc := &document.Document{
			Name:           "report",
			Extension:      ".pdf",
			StoragePointer: "mem://blobs/report",
			OwnerID:        owner.ID,
			CategoryID:     category.ID,
		}
		require.NoError(t, db.Create(doc).Error)

		err := service.Delete(ctx, owner.ID)
		assert.True(t, response.IsCode(err, response.Conflict))
	})
}

func TestUserService_Authenticate(t *testing.T) {
	service, db := setupService(t)
	ctx := context.Background()

	u := testutils.CreateTestUser(db, testutils.WithEmail("carol@example.com"))

	profile, err := service.Authenticate(ctx, "CAROL@example.com", testutils.TestPassword)
	require.NoError(t, err)
	assert.Equal(t, u.ID, profile.ID)

	_, err = service.Authenticate(ctx, "carol@example.com", "wrong")
	assert.True(t, response.IsCode(err, response.Unauthorized))

	_, err = service.Authenticate(ctx, "nobody@example.com", testutils.TestPassword)
	assert.True(t, response.IsCode(err, response.Unauthorized))
}
