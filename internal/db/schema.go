package db

// SchemaSQL is the complete schema for fresh shiptrack installs.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. Tests use it
// via GetSchemaSQL() instead of hardcoding CREATE TABLE statements, so a
// repository that references a missing column fails with "no such column"
// at test time.
//
// The tracking tree itself is not relational: each store keeps one JSON
// document in kv_state under a fixed key (auth, shipments,
// created-shipment).
const SchemaSQL = `
-- Key/value state (one JSON document per store)
CREATE TABLE IF NOT EXISTS kv_state (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL CHECK(json_valid(value)),
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Audit logs (immutable record of tracking events)
CREATE TABLE IF NOT EXISTS audit_logs (
	id TEXT PRIMARY KEY,
	timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
	actor_id TEXT,
	action TEXT NOT NULL,
	entity_type TEXT NOT NULL CHECK(entity_type IN ('shipment', 'billing', 'item')),
	entity_id TEXT NOT NULL,
	shipment_id TEXT,
	billing_id TEXT,
	field_name TEXT,
	old_value TEXT,
	new_value TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_audit_logs_timestamp ON audit_logs(timestamp);
CREATE INDEX IF NOT EXISTS idx_audit_logs_shipment ON audit_logs(shipment_id);
CREATE INDEX IF NOT EXISTS idx_audit_logs_action ON audit_logs(action);

-- Employees (demo directory shown on the admin surface)
CREATE TABLE IF NOT EXISTS employees (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	role TEXT NOT NULL CHECK(role IN ('admin', 'user')) DEFAULT 'user',
	active INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_employees_role ON employees(role);
`

// InitSchema creates the database schema
func InitSchema() error {
	return RunMigrations()
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
