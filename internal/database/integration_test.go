package database

import (
	"os"
	"testing"

	"learnloop/internal/config"
)

func testDB(t *testing.T, path string) *DB {
	t.Helper()

	cfg := &config.Config{DatabaseType: "sqlite", DatabasePath: path}
	db, err := Initialize(cfg)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		os.Remove(path)
		os.Remove(path + "-wal")
		os.Remove(path + "-shm")
	})

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

// TestDatabaseIntegration tests the complete database lifecycle
func TestDatabaseIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := testDB(t, "test_integration.db")

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	tables := []string{"users", "learning_items", "review_schedules", "sessions", "migrations"}
	for _, table := range tables {
		query := "SELECT name FROM sqlite_master WHERE type='table' AND name=?"
		var name string
		if err := db.QueryRow(query, table).Scan(&name); err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}
}

// TestMigrationsIdempotent verifies migrations are recorded and skipped
// on subsequent runs.
func TestMigrationsIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := testDB(t, "test_migrations.db")

	var before int
	if err := db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&before); err != nil {
		t.Fatalf("Failed to count migrations: %v", err)
	}
	if before == 0 {
		t.Fatal("Expected at least one recorded migration")
	}

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Second migration run failed: %v", err)
	}

	var after int
	if err := db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&after); err != nil {
		t.Fatalf("Failed to count migrations: %v", err)
	}
	if after != before {
		t.Errorf("Expected %d recorded migrations after rerun, got %d", before, after)
	}
}

// TestDatabaseTransactions tests transaction support
func TestDatabaseTransactions(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := testDB(t, "test_transactions.db")

	// Committed insert persists
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}

	id, err := tx.ExecReturningID("INSERT INTO users (email, password_hash) VALUES (?, ?)",
		"tx@example.com", "hashedpass")
	if err != nil {
		tx.Rollback()
		t.Fatalf("Failed to insert in transaction: %v", err)
	}
	if id == 0 {
		t.Error("Expected non-zero id from ExecReturningID")
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("Failed to commit transaction: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users WHERE email = ?", "tx@example.com").Scan(&count); err != nil {
		t.Fatalf("Failed to query after commit: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 user, got %d", count)
	}

	// Rolled-back insert does not
	tx2, err := db.Begin()
	if err != nil {
		t.Fatalf("Failed to begin second transaction: %v", err)
	}

	if _, err := tx2.Exec("INSERT INTO users (email, password_hash) VALUES (?, ?)",
		"rollback@example.com", "hashedpass"); err != nil {
		tx2.Rollback()
		t.Fatalf("Failed to insert in second transaction: %v", err)
	}

	if err := tx2.Rollback(); err != nil {
		t.Fatalf("Failed to rollback transaction: %v", err)
	}

	if err := db.QueryRow("SELECT COUNT(*) FROM users WHERE email = ?", "rollback@example.com").Scan(&count); err != nil {
		t.Fatalf("Failed to query after rollback: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 users after rollback, got %d", count)
	}
}
