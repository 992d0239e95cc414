package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/devconnect/internal/apperror"
	"github.com/sakif/devconnect/internal/model"
)

// newTestDB opens a fresh in-memory database for one test. ":memory:"
// databases are isolated and vanish when the connection closes, so tests
// can't contaminate each other.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser inserts a user and fails the test on error.
func createTestUser(t *testing.T, users *UserStore, name, email string) *model.User {
	t.Helper()
	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: "$2a$04$fakefakefakefakefakefakefakefakefakefakefakefakefakef",
		AvatarURL:    "https://www.gravatar.com/avatar/0?s=200&r=pg&d=mm",
	}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func TestCreateUser(t *testing.T) {
	users := NewUserStore(newTestDB(t))

	user := createTestUser(t, users, "Alice", "alice@example.com")

	if user.ID == "" {
		t.Error("Create() did not set user.ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("Create() did not set user.CreatedAt")
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	users := NewUserStore(newTestDB(t))

	original := createTestUser(t, users, "Alice", "alice@example.com")

	dup := &model.User{Name: "Impostor", Email: "alice@example.com", PasswordHash: "x"}
	err := users.Create(context.Background(), dup)

	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("Create() with duplicate email: error = %v, want ErrConflict", err)
	}

	// The existing record must be untouched
	stored, err := users.GetByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if stored.ID != original.ID || stored.Name != "Alice" {
		t.Errorf("duplicate registration modified the original record: %+v", stored)
	}
}

func TestGetUserByID(t *testing.T) {
	users := NewUserStore(newTestDB(t))
	original := createTestUser(t, users, "Alice", "alice@example.com")

	found, err := users.GetByID(context.Background(), original.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Email != original.Email || found.Name != original.Name {
		t.Errorf("GetByID() = %+v, want %+v", found, original)
	}
	if found.PasswordHash == "" {
		t.Error("GetByID() should return the stored password hash for verification")
	}
}

func TestGetUser_NotFound(t *testing.T) {
	users := NewUserStore(newTestDB(t))

	if _, err := users.GetByID(context.Background(), "no-such-id"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
	if _, err := users.GetByEmail(context.Background(), "ghost@example.com"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByEmail() error = %v, want ErrNotFound", err)
	}
}
