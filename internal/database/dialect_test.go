package database

import (
	"strings"
	"testing"
)

func TestDialectSQLite(t *testing.T) {
	dialect := NewSQLiteDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "sqlite3"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("SupportsLastInsertId", func(t *testing.T) {
		if !dialect.SupportsLastInsertId() {
			t.Error("SupportsLastInsertId() should return true for SQLite")
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		result := dialect.MigrationsSubdir()
		expected := "sqlite"
		if result != expected {
			t.Errorf("MigrationsSubdir() = %v, want %v", result, expected)
		}
	})

	t.Run("RewriteQuery", func(t *testing.T) {
		query := "SELECT * FROM policies WHERE child_id = ?"
		if dialect.RewriteQuery(query) != query {
			t.Error("SQLite should not rewrite placeholders")
		}
	})

	t.Run("ConflictIgnoreSuffix", func(t *testing.T) {
		result := dialect.ConflictIgnoreSuffix("session_id, page_index")
		expected := "ON CONFLICT (session_id, page_index) DO NOTHING"
		if result != expected {
			t.Errorf("ConflictIgnoreSuffix() = %v, want %v", result, expected)
		}
	})

	t.Run("IsUniqueViolationIgnoresOtherErrors", func(t *testing.T) {
		if dialect.IsUniqueViolation(nil) {
			t.Error("nil error should not be a unique violation")
		}
	})
}

func TestDialectPostgreSQL(t *testing.T) {
	dialect := NewPostgresDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "postgres"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("SupportsLastInsertId", func(t *testing.T) {
		if dialect.SupportsLastInsertId() {
			t.Error("SupportsLastInsertId() should return false for PostgreSQL")
		}
	})

	t.Run("RewriteQuery", func(t *testing.T) {
		query := "INSERT INTO policies (child_id, daily_limit_minutes) VALUES (?, ?)"
		result := dialect.RewriteQuery(query)
		if !strings.Contains(result, "$1") || !strings.Contains(result, "$2") {
			t.Errorf("RewriteQuery() = %v, want numbered placeholders", result)
		}
		if strings.Contains(result, "?") {
			t.Errorf("RewriteQuery() left a ? placeholder: %v", result)
		}
	})

	t.Run("ConflictIgnoreSuffix", func(t *testing.T) {
		result := dialect.ConflictIgnoreSuffix("session_id, page_index")
		expected := "ON CONFLICT (session_id, page_index) DO NOTHING"
		if result != expected {
			t.Errorf("ConflictIgnoreSuffix() = %v, want %v", result, expected)
		}
	})
}

func TestDialectMySQL(t *testing.T) {
	dialect := NewMySQLDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "mysql"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("SupportsLastInsertId", func(t *testing.T) {
		if !dialect.SupportsLastInsertId() {
			t.Error("SupportsLastInsertId() should return true for MySQL")
		}
	})

	t.Run("RewriteQuery", func(t *testing.T) {
		query := "SELECT * FROM reading_sessions WHERE child_id = ?"
		if dialect.RewriteQuery(query) != query {
			t.Error("MySQL should not rewrite placeholders")
		}
	})

	t.Run("ConflictIgnoreSuffix", func(t *testing.T) {
		result := dialect.ConflictIgnoreSuffix("session_id, page_index")
		expected := "ON DUPLICATE KEY UPDATE session_id = session_id"
		if result != expected {
			t.Errorf("ConflictIgnoreSuffix() = %v, want %v", result, expected)
		}
	})
}
