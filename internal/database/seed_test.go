package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
)

const testSeedPath = "../../seed/characters.toml"

func newTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := Initialize(dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

func TestSeedCharactersIdempotent(t *testing.T) {
	db := newTestDB(t)

	if err := db.SeedCharacters(testSeedPath); err != nil {
		t.Fatalf("SeedCharacters() error = %v", err)
	}

	var first int
	if err := db.QueryRow("SELECT COUNT(*) FROM characters").Scan(&first); err != nil {
		t.Fatalf("failed to count characters: %v", err)
	}
	if first == 0 {
		t.Fatal("seed left the characters table empty")
	}

	// A second run against a seeded database is a no-op
	if err := db.SeedCharacters(testSeedPath); err != nil {
		t.Fatalf("SeedCharacters() second run error = %v", err)
	}
	var second int
	if err := db.QueryRow("SELECT COUNT(*) FROM characters").Scan(&second); err != nil {
		t.Fatalf("failed to count characters: %v", err)
	}
	if second != first {
		t.Errorf("character count changed from %d to %d on reseed", first, second)
	}
}

func TestReseedRefusedWithPracticeHistory(t *testing.T) {
	db := newTestDB(t)
	if err := db.SeedCharacters(testSeedPath); err != nil {
		t.Fatalf("SeedCharacters() error = %v", err)
	}

	userID, err := db.ExecReturningID(`INSERT INTO users (username) VALUES ('siuming')`)
	if err != nil {
		t.Fatalf("failed to insert user: %v", err)
	}
	var characterID, exerciseID int64
	if err := db.QueryRow("SELECT id FROM characters LIMIT 1").Scan(&characterID); err != nil {
		t.Fatalf("failed to pick a character: %v", err)
	}
	if err := db.QueryRow("SELECT id FROM exercises LIMIT 1").Scan(&exerciseID); err != nil {
		t.Fatalf("failed to pick an exercise: %v", err)
	}
	if _, err := db.Exec(`
		INSERT INTO practice_sessions (id, user_id) VALUES ('session-1', ?)
	`, userID); err != nil {
		t.Fatalf("failed to insert session: %v", err)
	}
	if _, err := db.Exec(`
		INSERT INTO practice_attempts (session_id, user_id, exercise_id, character_id, accuracy)
		VALUES ('session-1', ?, ?, ?, 80)
	`, userID, exerciseID, characterID); err != nil {
		t.Fatalf("failed to insert attempt: %v", err)
	}

	err = db.ReseedCharacters(testSeedPath)
	if !errors.Is(err, ErrPracticeHistory) {
		t.Errorf("ReseedCharacters() error = %v, want ErrPracticeHistory", err)
	}

	// The guard must leave the existing reference data untouched
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM characters").Scan(&count); err != nil {
		t.Fatalf("failed to count characters: %v", err)
	}
	if count == 0 {
		t.Error("refused reseed still cleared the characters table")
	}
}

func TestReseedWithoutPracticeHistory(t *testing.T) {
	db := newTestDB(t)
	if err := db.SeedCharacters(testSeedPath); err != nil {
		t.Fatalf("SeedCharacters() error = %v", err)
	}

	if err := db.ReseedCharacters(testSeedPath); err != nil {
		t.Fatalf("ReseedCharacters() error = %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM characters").Scan(&count); err != nil {
		t.Fatalf("failed to count characters: %v", err)
	}
	if count == 0 {
		t.Error("reseed left the characters table empty")
	}
}

func TestForeignKeysOnEveryConnection(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// Hold several pooled connections at once so each one is distinct; the
	// enforcement comes from the DSN, not a per-connection pragma
	var conns []*sql.Conn
	for i := 0; i < 5; i++ {
		conn, err := db.Conn(ctx)
		if err != nil {
			t.Fatalf("failed to open connection %d: %v", i, err)
		}
		conns = append(conns, conn)
	}
	defer func() {
		for _, conn := range conns {
			conn.Close()
		}
	}()

	for i, conn := range conns {
		var enabled int
		if err := conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&enabled); err != nil {
			t.Fatalf("failed to read pragma on connection %d: %v", i, err)
		}
		if enabled != 1 {
			t.Errorf("connection %d: foreign_keys = %d, want 1", i, enabled)
		}
	}
}

func TestForeignKeysRejectDanglingReferences(t *testing.T) {
	db := newTestDB(t)

	if _, err := db.Exec(`
		INSERT INTO practice_sessions (id, user_id) VALUES ('session-1', 999)
	`); err == nil {
		t.Error("expected a session referencing a missing user to be rejected")
	}
}
