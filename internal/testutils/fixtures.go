package testutils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/model/document"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/model/user"
)

// TestPassword is the plain password of every fixture user
const TestPassword = "Password123"

var testPasswordHash = func() string {
	hash, _ := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	return string(hash)
}()

// RoleID resolves a seeded role by name
func RoleID(db *gorm.DB, name string) uint {
	var role user.Role
	if err := db.Where("name = ?", name).First(&role).Error; err != nil {
		panic(fmt.Sprintf("Role %q not seeded: %v", name, err))
	}
	return role.ID
}

// CreateTestUser creates a test user with unique name/email (Standard User by default)
func CreateTestUser(db *gorm.DB, opts ...UserOption) *user.User {
	uniqueID := uuid.New().String()

	testUser := &user.User{
		Name:         fmt.Sprintf("test_user_%s", uniqueID[:8]),
		Email:        fmt.Sprintf("test_%s@example.com", uniqueID),
		PasswordHash: testPasswordHash,
		RegisteredAt: time.Now().UTC(),
		RoleID:       RoleID(db, user.RoleStandard),
	}

	for _, opt := range opts {
		opt(db, testUser)
	}

	if err := db.Create(testUser).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test user: %v", err))
	}

	return testUser
}

// UserOption configures test user
type UserOption func(*gorm.DB, *user.User)

// WithName sets the display name
func WithName(name string) UserOption {
	return func(_ *gorm.DB, u *user.User) {
		u.Name = name
	}
}

// WithEmail sets the email
func WithEmail(email string) UserOption {
	return func(_ *gorm.DB, u *user.User) {
		u.Email = email
	}
}

// WithRole sets the role by name
func WithRole(role string) UserOption {
	return func(db *gorm.DB, u *user.User) {
		u.RoleID = RoleID(db, role)
	}
}

// WithPassword sets the password (will be hashed)
func WithPassword(password string) UserOption {
	return func(_ *gorm.DB, u *user.User) {
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		u.PasswordHash = string(hash)
	}
}

// CreateTestCategory creates a category with a unique name unless one is given
func CreateTestCategory(db *gorm.DB, name ...string) *document.Category {
	categoryName := fmt.Sprintf("category_%s", uuid.New().String()[:8])
	if len(name) > 0 {
		categoryName = name[0]
	}

	category := &document.Category{Name: categoryName}
	if err := db.Create(category).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test category: %v", err))
	}
	return category
}
