package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/model/user"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/permission"
	authsdk "github.com/j-marthe/sistema-gestion-archivos-backend/packages/auth-sdk"
)

const secret = "middleware-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter() *gin.Engine {
	r := gin.New()
	r.GET("/me", JWTAuth(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, CurrentUser(c))
	})
	r.DELETE("/documents/:id", JWTAuth(secret), RequireOperation(permission.OpDocumentDelete), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func issue(t *testing.T, role string) string {
	t.Helper()
	token, err := authsdk.NewIssuer(secret, time.Hour).Issue(authsdk.UserContext{
		UserID: "u-1", Name: "Alice", Email: "alice@example.com", Role: role,
	})
	require.NoError(t, err)
	return token
}

func TestJWTAuth(t *testing.T) {
	r := newRouter()

	tests := []struct {
		name   string
		header string
		cookie string
		want   int
	}{
		{"无token", "", "", http.StatusUnauthorized},
		{"错误token", "Bearer nope", "", http.StatusUnauthorized},
		{"Authorization头", "Bearer " + issue(t, user.RoleReader), "", http.StatusOK},
		{"Cookie", "", issue(t, user.RoleReader), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "access_token", Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRequireOperation(t *testing.T) {
	r := newRouter()

	tests := []struct {
		role string
		want int
	}{
		{user.RoleAdministrator, http.StatusNoContent},
		{user.RoleStandard, http.StatusForbidden},
		{user.RoleReader, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/documents/abc", nil)
			req.Header.Set("Authorization", "Bearer "+issue(t, tt.role))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
