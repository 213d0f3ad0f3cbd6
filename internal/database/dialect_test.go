package database

import "testing"

func TestRewritePlaceholdersToNumbered(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected string
	}{
		{
			name:     "no placeholders",
			query:    "SELECT id FROM topics",
			expected: "SELECT id FROM topics",
		},
		{
			name:     "single placeholder",
			query:    "SELECT id FROM topics WHERE name = ?",
			expected: "SELECT id FROM topics WHERE name = $1",
		},
		{
			name:     "multiple placeholders",
			query:    "INSERT INTO topics (name, description, active) VALUES (?, ?, ?)",
			expected: "INSERT INTO topics (name, description, active) VALUES ($1, $2, $3)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rewritePlaceholdersToNumbered(tt.query); got != tt.expected {
				t.Errorf("rewritePlaceholdersToNumbered() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDialectBasics(t *testing.T) {
	tests := []struct {
		name             string
		dialect          Dialect
		driver           string
		lastInsertID     bool
		migrationsSubdir string
	}{
		{"sqlite", NewSQLiteDialect(), "sqlite3", true, "sqlite"},
		{"postgres", NewPostgresDialect(), "postgres", false, "postgres"},
		{"mysql", NewMySQLDialect(), "mysql", true, "mysql"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.DriverName(); got != tt.driver {
				t.Errorf("DriverName() = %q, want %q", got, tt.driver)
			}
			if got := tt.dialect.SupportsLastInsertId(); got != tt.lastInsertID {
				t.Errorf("SupportsLastInsertId() = %v, want %v", got, tt.lastInsertID)
			}
			if got := tt.dialect.MigrationsSubdir(); got != tt.migrationsSubdir {
				t.Errorf("MigrationsSubdir() = %q, want %q", got, tt.migrationsSubdir)
			}
		})
	}
}

func TestPostgresRewriteQuery(t *testing.T) {
	d := NewPostgresDialect()
	got := d.RewriteQuery("UPDATE stats SET figures = ?, updated = ? WHERE id = ?")
	want := "UPDATE stats SET figures = $1, updated = $2 WHERE id = $3"
	if got != want {
		t.Errorf("RewriteQuery() = %q, want %q", got, want)
	}
}
