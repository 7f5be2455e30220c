package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lysokunvoath/grex/internal/models"
	"golang.org/x/crypto/bcrypt"
)

const TestJWTSecret = "test-secret-key-for-testing-only"

// TestHelper provides utility functions for tests
type TestHelper struct {
	t *testing.T
}

func NewTestHelper(t *testing.T) *TestHelper {
	return &TestHelper{t: t}
}

// CreateTestUser builds a user with a known password, not persisted.
func (h *TestHelper) CreateTestUser(displayName, email, password string) *models.User {
	h.t.Helper()
	if displayName == "" {
		displayName = "testuser"
	}
	if email == "" {
		email = "test@example.com"
	}
	if password == "" {
		password = "password123"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		h.t.Fatalf("hash password: %v", err)
	}

	return &models.User{
		ID:           uuid.New(),
		DisplayName:  displayName,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// SetupTestEnv sets the environment the server reads, restored when the test ends.
func (h *TestHelper) SetupTestEnv() {
	h.t.Setenv("JWT_SECRET", TestJWTSecret)
	h.t.Setenv("PASSWORD_MIN_LENGTH", "8")
	h.t.Setenv("REDIS_ADDR", "")
}
