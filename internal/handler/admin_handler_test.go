package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-portal-api/internal/models"
	"github.com/noah-isme/college-portal-api/internal/service"
)

type fakeAdminRepo struct {
	users map[string]*models.User
}

func (f *fakeAdminRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeAdminRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		if filter.Approved != nil && u.IsApproved != *filter.Approved {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeAdminRepo) SetApproved(ctx context.Context, id string, approved bool) error {
	u, ok := f.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.IsApproved = approved
	return nil
}

func (f *fakeAdminRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.users, id)
	return nil
}

func (f *fakeAdminRepo) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	return nil
}

func (f *fakeAdminRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	return nil
}

func newAdminHandler(repo *fakeAdminRepo) *AdminHandler {
	return NewAdminHandler(service.NewUserService(repo, nil), nil)
}

func TestListUsersDefaultsToPending(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAdminHandler(&fakeAdminRepo{users: map[string]*models.User{
		"u1": {ID: "u1", Username: "pending", IsApproved: false},
		"u2": {ID: "u2", Username: "active", IsApproved: true},
	}})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/users", nil)

	handler.ListUsers(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pending")
	assert.NotContains(t, rec.Body.String(), "active")
}

func TestListUsersApprovedFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAdminHandler(&fakeAdminRepo{users: map[string]*models.User{
		"u1": {ID: "u1", Username: "pending", IsApproved: false},
		"u2": {ID: "u2", Username: "active", IsApproved: true},
	}})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/users?approved=true", nil)

	handler.ListUsers(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "active")
	assert.NotContains(t, rec.Body.String(), "pending")
}

func TestListUsersRejectsMalformedApprovedParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAdminHandler(&fakeAdminRepo{users: map[string]*models.User{}})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/users?approved=garbage", nil)

	handler.ListUsers(c)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "approved must be a boolean")
}
