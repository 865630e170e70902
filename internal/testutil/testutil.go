package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ismyyear/lockin/internal/db"
	"github.com/ismyyear/lockin/internal/model"
	"github.com/ismyyear/lockin/internal/repository"
	"github.com/jmoiron/sqlx"
)

// TestJWTSecret signs tokens produced by Token.
const TestJWTSecret = "test-secret-key-for-testing-only"

// SetupTestDB opens a fresh SQLite database with all migrations applied.
func SetupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	database, err := db.Init("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	err = db.RunMigrations(database.DB, "sqlite")
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return database
}

// CreateUser inserts a user with the given id and an email derived from it.
func CreateUser(t *testing.T, users repository.UserRepository, id string) *model.User {
	t.Helper()

	user := &model.User{
		ID:        id,
		Email:     fmt.Sprintf("%s@example.com", id),
		IsNewUser: true,
		CreatedAt: time.Now().UTC(),
	}
	err := users.Create(context.Background(), user)
	if err != nil {
		t.Fatalf("Failed to create user %s: %v", id, err)
	}

	return user
}

// Token returns an HS256 bearer token whose subject is userID.
func Token(t *testing.T, userID string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub": userID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(TestJWTSecret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}

	return token
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
