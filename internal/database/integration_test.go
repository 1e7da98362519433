package database

import (
	"os"
	"path/filepath"
	"testing"
)

// TestDatabaseIntegration exercises the full migration lifecycle against a
// throwaway SQLite database
func TestDatabaseIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := filepath.Join(t.TempDir(), "storynest_test.db")

	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(filepath.Join("..", "..", "migrations")); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	tables := []string{
		"parents", "children", "categories", "age_groups",
		"books", "book_categories", "book_pages",
		"policies", "policy_allowed_categories", "policy_allowed_age_groups",
		"reading_sessions", "reading_session_pages", "reading_progress_events",
	}

	for _, table := range tables {
		query := "SELECT name FROM sqlite_master WHERE type='table' AND name=?"
		var name string
		if err := db.QueryRow(query, table).Scan(&name); err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}

	// Running migrations a second time must be a no-op
	if err := db.RunMigrations(filepath.Join("..", "..", "migrations")); err != nil {
		t.Fatalf("Re-running migrations failed: %v", err)
	}
}

// TestUniqueViolationDetection verifies the sqlite dialect recognizes a real
// duplicate-key error, which the policy store's create-if-absent path
// depends on
func TestUniqueViolationDetection(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := filepath.Join(t.TempDir(), "storynest_unique.db")
	defer os.Remove(dbPath)

	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec("CREATE TABLE t (id INTEGER UNIQUE)"); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	if _, err := db.Exec("INSERT INTO t (id) VALUES (1)"); err != nil {
		t.Fatalf("Failed to insert: %v", err)
	}

	_, err = db.Exec("INSERT INTO t (id) VALUES (1)")
	if err == nil {
		t.Fatal("expected duplicate insert to fail")
	}
	if !db.Dialect.IsUniqueViolation(err) {
		t.Errorf("IsUniqueViolation(%v) = false, want true", err)
	}
}
