// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Instead, use
// setupTestDB() and the seed* helpers.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/shiptrack/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// This is the single shared test database setup function for all repository tests.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// Every pooled connection to :memory: is a separate database
	testDB.SetMaxOpenConns(1)

	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedAuditLog inserts an audit entry with an explicit timestamp.
func seedAuditLog(t *testing.T, db *sql.DB, id, timestamp, action, shipmentID string) {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO audit_logs (id, timestamp, action, entity_type, entity_id, shipment_id) VALUES (?, ?, ?, 'shipment', ?, ?)",
		id, timestamp, action, shipmentID, shipmentID,
	)
	if err != nil {
		t.Fatalf("failed to seed audit log: %v", err)
	}
}

// seedEmployee inserts an employee and returns its username.
func seedEmployee(t *testing.T, db *sql.DB, username, role string) string {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO employees (id, username, name, role, active) VALUES (?, ?, ?, ?, 1)",
		"EMP-"+username, username, "Test "+username, role,
	)
	if err != nil {
		t.Fatalf("failed to seed employee: %v", err)
	}
	return username
}
