package services_test

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/isdelr/social-feed-be/internal/apperr"
	"github.com/isdelr/social-feed-be/internal/database"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// seedUser inserts an account directly, skipping the bcrypt work the
// registration path does.
func seedUser(t *testing.T, db *sql.DB, id, name, email string) {
	t.Helper()
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := db.Exec(
		"INSERT INTO users(id, name, email, password_hash, status, created_at, updated_at) VALUES(?, ?, ?, ?, ?, ?, ?)",
		id, name, email, "x", "I am new!", now, now)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

// wantCode asserts err is a domain error carrying the given status code.
func wantCode(t *testing.T, err error, code int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %d, got nil", code)
	}
	e, ok := apperr.From(err)
	if !ok {
		t.Fatalf("expected domain error with code %d, got %v", code, err)
	}
	if e.Code != code {
		t.Fatalf("error code = %d, want %d (%v)", e.Code, code, err)
	}
}
