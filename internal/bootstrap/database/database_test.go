package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"qmsevents/internal/bootstrap/config"
)

func TestOpenSQLiteCreatesDirectoryAndMigrates(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	dsn := filepath.Join(dir, "qms.sqlite") + "?_pragma=busy_timeout(5000)&_txlock=immediate"
	ctx := context.Background()

	db, err := Open(ctx, config.DatabaseConfig{Driver: "SQLite", DSN: dsn, MaxOpenConns: 4})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("DB() error = %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("sqlite directory not created: %v", err)
	}
	if got := sqlDB.Stats().MaxOpenConnections; got != 4 {
		t.Fatalf("max open conns = %d, want 4", got)
	}

	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if !db.Migrator().HasTable("events") {
		t.Fatal("events table missing after Migrate()")
	}
	for _, column := range []string{"id", "title", "event_date", "due_date", "preliminary_root_cause", "date"} {
		if !db.Migrator().HasColumn("events", column) {
			t.Fatalf("events.%s missing", column)
		}
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), config.DatabaseConfig{Driver: "oracle", DSN: "x"}); err == nil {
		t.Fatal("Open() error = nil, want unsupported driver")
	}
}

func TestRedactDSN(t *testing.T) {
	cases := map[string]string{
		"postgres://qms:secret@db:5432/qms?sslmode=disable": "postgres://qms:***@db:5432/qms?sslmode=disable",
		"postgres://db:5432/qms":                            "postgres://db:5432/qms",
		".data/qms.sqlite":                                  ".data/qms.sqlite",
	}
	for in, want := range cases {
		if got := redactDSN(in); got != want {
			t.Fatalf("redactDSN(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWithSQLiteTxLock(t *testing.T) {
	cases := map[string]string{
		".data/qms.sqlite":                            ".data/qms.sqlite?_txlock=immediate",
		".data/qms.sqlite?_pragma=busy_timeout(5000)": ".data/qms.sqlite?_pragma=busy_timeout(5000)&_txlock=immediate",
		".data/qms.sqlite?_txlock=exclusive":          ".data/qms.sqlite?_txlock=exclusive",
		":memory:":                                    ":memory:",
	}
	for in, want := range cases {
		if got := withSQLiteTxLock(in); got != want {
			t.Fatalf("withSQLiteTxLock(%q) = %q, want %q", in, got, want)
		}
	}
}
