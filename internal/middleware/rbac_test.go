package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-portal-api/internal/models"
)

func rbacRouter(user *models.User, guard gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if user != nil {
			c.Set(ContextUserKey, user)
		}
		c.Next()
	})
	router.GET("/", guard, func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func serve(router *gin.Engine) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestRequireRolesAllowsMatchingRole(t *testing.T) {
	user := &models.User{ID: "u1", Role: models.RoleFaculty, IsApproved: true}
	recorder := serve(rbacRouter(user, RequireRoles(models.RoleFaculty)))
	if recorder.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
}

func TestRequireRolesRejectsAdminOnFacultyRoute(t *testing.T) {
	user := &models.User{ID: "u1", Role: models.RoleAdmin, IsApproved: true}
	recorder := serve(rbacRouter(user, RequireRoles(models.RoleFaculty)))
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
}

func TestRequireRolesWithoutUser(t *testing.T) {
	recorder := serve(rbacRouter(nil, RequireRoles(models.RoleStudent)))
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
}

func TestApprovedBlocksPendingAccount(t *testing.T) {
	user := &models.User{ID: "u1", Role: models.RoleStudent}
	recorder := serve(rbacRouter(user, Approved()))
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
}

func TestApprovedPassesApprovedAccount(t *testing.T) {
	user := &models.User{ID: "u1", Role: models.RoleStudent, IsApproved: true}
	recorder := serve(rbacRouter(user, Approved()))
	if recorder.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
}

func TestSuperuserRejectsRegularAdmin(t *testing.T) {
	user := &models.User{ID: "u1", Role: models.RoleAdmin, IsApproved: true}
	recorder := serve(rbacRouter(user, Superuser()))
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
}
