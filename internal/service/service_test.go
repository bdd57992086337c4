package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/studenthub/backend/internal/models"
	"github.com/studenthub/backend/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// A fresh connection to :memory: is a fresh database; pin the pool
	// to one connection so every query sees the same schema.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Student{}))

	return &repo.GormRepo{DB: db}
}

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	return &AuthService{
		Repo:      newTestRepo(t),
		JWTSecret: []byte("test-jwt-secret"),
		TokenTTL:  30 * 24 * time.Hour,
	}
}

func newTestStudentService(t *testing.T) *StudentService {
	t.Helper()
	return &StudentService{Repo: newTestRepo(t)}
}

func registerTestUser(t *testing.T, svc *AuthService, username, email string) *models.User {
	t.Helper()
	user, err := svc.Register(context.Background(), username, email, "secret1")
	require.NoError(t, err)
	return user
}

func validStudent(studentID, email string) *models.Student {
	return &models.Student{
		StudentID: studentID,
		FirstName: "Alice",
		LastName:  "Johnson",
		Email:     email,
		Age:       20,
		Grade:     "A",
		Course:    "Computer Science",
		Phone:     "555-0101",
		Address: models.Address{
			Street:  "1 Main St",
			City:    "Springfield",
			State:   "IL",
			ZipCode: "62701",
		},
	}
}
