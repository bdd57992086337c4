package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/studenthub/backend/internal/models"
	"github.com/studenthub/backend/internal/repo"
	"github.com/studenthub/backend/internal/tokens"
)

var testSecret = []byte("test-jwt-secret")

func newTestAuth(t *testing.T) *Auth {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Student{}))

	return NewAuth(&repo.GormRepo{DB: db}, testSecret)
}

func createTestUser(t *testing.T, a *Auth, role string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     "user-" + role,
		Email:        role + "@x.com",
		PasswordHash: "irrelevant",
		Role:         role,
	}
	require.NoError(t, a.Repo.CreateUser(context.Background(), user))
	return user
}

func doRequest(a *Auth, mw echo.MiddlewareFunc, header string) (*httptest.ResponseRecorder, bool, *models.User) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/students", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	nextCalled := false
	var attached *models.User
	next := func(c echo.Context) error {
		nextCalled = true
		attached, _ = UserFromContext(c)
		return c.NoContent(http.StatusOK)
	}

	_ = mw(next)(c)
	return rec, nextCalled, attached
}

func TestRequireAuth_MissingToken(t *testing.T) {
	t.Parallel()

	a := newTestAuth(t)

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "not bearer", header: "Basic dXNlcjpwYXNz"},
		{name: "bare token", header: "some-token"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec, nextCalled, _ := doRequest(a, a.RequireAuth, tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, nextCalled, "pipeline must halt on auth failure")
			assert.Contains(t, rec.Body.String(), `"success":false`)
		})
	}
}

func TestRequireAuth_InvalidAndExpiredTokens(t *testing.T) {
	t.Parallel()

	a := newTestAuth(t)
	user := createTestUser(t, a, models.RoleUser)

	expired, err := tokens.Issue(user.ID, user.Role, testSecret, -time.Minute)
	require.NoError(t, err)
	foreign, err := tokens.Issue(user.ID, user.Role, []byte("other-secret"), time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-jwt"},
		{name: "expired", token: expired},
		{name: "wrong secret", token: foreign},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec, nextCalled, _ := doRequest(a, a.RequireAuth, "Bearer "+tt.token)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, nextCalled)
		})
	}
}

func TestRequireAuth_UnknownUser(t *testing.T) {
	t.Parallel()

	a := newTestAuth(t)

	// Valid signature, but the subject does not exist in the store.
	ghost, err := tokens.Issue(uuid.New(), models.RoleUser, testSecret, time.Hour)
	require.NoError(t, err)

	rec, nextCalled, _ := doRequest(a, a.RequireAuth, "Bearer "+ghost)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, nextCalled)
}

func TestRequireAuth_AttachesResolvedUser(t *testing.T) {
	t.Parallel()

	a := newTestAuth(t)
	user := createTestUser(t, a, models.RoleUser)

	token, err := tokens.Issue(user.ID, user.Role, testSecret, time.Hour)
	require.NoError(t, err)

	rec, nextCalled, attached := doRequest(a, a.RequireAuth, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, nextCalled)
	require.NotNil(t, attached)
	assert.Equal(t, user.ID, attached.ID)
	assert.Empty(t, attached.PasswordHash, "hash never travels past the guard")
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	a := newTestAuth(t)
	admin := createTestUser(t, a, models.RoleAdmin)
	user := createTestUser(t, a, models.RoleUser)

	run := func(u *models.User) (*httptest.ResponseRecorder, bool) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if u != nil {
			c.Set(userContextKey, u)
		}

		nextCalled := false
		next := func(c echo.Context) error {
			nextCalled = true
			return c.NoContent(http.StatusOK)
		}
		_ = a.RequireAdmin(next)(c)
		return rec, nextCalled
	}

	rec, called := run(admin)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)

	rec, called = run(user)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)

	rec, called = run(nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}
