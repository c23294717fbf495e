package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/songbook/internal/apperror"
	"github.com/sakif/songbook/internal/model"
)

// createTestUser is a test helper that creates a user and fails the test if it errors.
func createTestUser(t *testing.T, db *DB, email string) *model.User {
	t.Helper()
	u := &model.User{Name: "Test User", Email: email, PasswordHash: "$2a$04$hash"}
	if err := db.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// =========================================================================
// CREATE
// =========================================================================

func TestCreateUser(t *testing.T) {
	db := newTestDB(t)

	u := createTestUser(t, db, "ana@example.com")

	if u.ID == "" {
		t.Error("CreateUser() did not set user.ID")
	}
	if u.CreatedAt.IsZero() {
		t.Error("CreateUser() did not set user.CreatedAt")
	}
}

func TestCreateUser_DuplicateEmailIgnoresCase(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "ana@example.com")

	err := db.CreateUser(context.Background(), &model.User{
		Name: "Other", Email: "ANA@Example.com", PasswordHash: "x",
	})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("CreateUser() error = %v, want ErrConflict", err)
	}
}

// =========================================================================
// LOOKUPS
// =========================================================================

func TestGetUserByID(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "ana@example.com")

	found, err := db.GetUserByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if found.Email != "ana@example.com" {
		t.Errorf("Email = %q, want %q", found.Email, "ana@example.com")
	}
	if found.PasswordHash != "$2a$04$hash" {
		t.Errorf("PasswordHash = %q, want stored hash", found.PasswordHash)
	}
}

func TestGetUserByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetUserByID(context.Background(), "nonexistent")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetUserByID() error = %v, want ErrNotFound", err)
	}
}

func TestGetUserByEmail(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "ana@example.com")

	tests := []struct {
		name    string
		email   string
		wantErr error
	}{
		{"exact", "ana@example.com", nil},
		{"different case", "Ana@EXAMPLE.com", nil},
		{"surrounding spaces", "  ana@example.com ", nil},
		{"unknown", "bob@example.com", apperror.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := db.GetUserByEmail(context.Background(), tt.email)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("GetUserByEmail() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetUserByEmail() error = %v", err)
			}
			if found.ID != created.ID {
				t.Errorf("ID = %q, want %q", found.ID, created.ID)
			}
		})
	}
}
