package database

import (
	"testing"
)

func TestDialectIdentity(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		driver  string
		subdir  string
	}{
		{"sqlite", NewSQLiteDialect(), "sqlite3", "sqlite"},
		{"postgres", NewPostgresDialect(), "postgres", "postgres"},
		{"mysql", NewMySQLDialect(), "mysql", "mysql"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.DriverName(); got != tt.driver {
				t.Errorf("DriverName() = %v, want %v", got, tt.driver)
			}
			if got := tt.dialect.MigrationsSubdir(); got != tt.subdir {
				t.Errorf("MigrationsSubdir() = %v, want %v", got, tt.subdir)
			}
		})
	}
}

func TestRewriteQuery(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		query    string
		expected string
	}{
		{
			name:     "SQLite no change",
			dialect:  NewSQLiteDialect(),
			query:    "SELECT * FROM gem_events WHERE session_id = ?",
			expected: "SELECT * FROM gem_events WHERE session_id = ?",
		},
		{
			name:     "PostgreSQL single placeholder",
			dialect:  NewPostgresDialect(),
			query:    "SELECT * FROM gem_events WHERE session_id = ?",
			expected: "SELECT * FROM gem_events WHERE session_id = $1",
		},
		{
			name:     "PostgreSQL multiple placeholders",
			dialect:  NewPostgresDialect(),
			query:    "INSERT INTO game_sessions (id, student_id) VALUES (?, ?)",
			expected: "INSERT INTO game_sessions (id, student_id) VALUES ($1, $2)",
		},
		{
			name:     "MySQL no change",
			dialect:  NewMySQLDialect(),
			query:    "UPDATE students SET total_xp = total_xp + ? WHERE id = ?",
			expected: "UPDATE students SET total_xp = total_xp + ? WHERE id = ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.dialect.RewriteQuery(tt.query)
			if result != tt.expected {
				t.Errorf("RewriteQuery() = %v, want %v", result, tt.expected)
			}
		})
	}
}
