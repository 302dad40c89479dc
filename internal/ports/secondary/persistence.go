// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// State keys. Each store persists one JSON document under its key.
const (
	StateKeyAuth            = "auth"
	StateKeyShipments       = "shipments"
	StateKeyCreatedShipment = "created-shipment"
)

// StateRepository defines the secondary port for key/value state persistence.
// Values are opaque JSON documents owned by the caller.
type StateRepository interface {
	// Load returns the value stored under key. found is false if the key
	// has never been saved or was deleted.
	Load(ctx context.Context, key string) (value []byte, found bool, err error)

	// Save stores value under key, replacing any previous value.
	Save(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// AuditLogRepository defines the secondary port for audit log persistence.
// Entries are immutable - no Update operations, but old entries can be pruned.
type AuditLogRepository interface {
	// Create persists a new audit entry.
	Create(ctx context.Context, log *AuditLogRecord) error

	// GetByID retrieves an audit entry by its ID.
	GetByID(ctx context.Context, id string) (*AuditLogRecord, error)

	// List retrieves audit entries matching the given filters, newest first.
	List(ctx context.Context, filters AuditLogFilters) ([]*AuditLogRecord, error)

	// PruneOlderThan deletes entries older than the given number of days.
	// Returns the number of deleted entries.
	PruneOlderThan(ctx context.Context, days int) (int, error)
}

// AuditLogRecord represents an audit entry as stored in persistence.
type AuditLogRecord struct {
	ID         string
	Timestamp  string
	ActorID    string // Empty string means null
	Action     string
	EntityType string
	EntityID   string
	ShipmentID string // Empty string means null
	BillingID  string // Empty string means null
	FieldName  string // Empty string means null - for updates only
	OldValue   string // Empty string means null
	NewValue   string // Empty string means null
}

// AuditLogFilters contains filter options for querying audit entries.
type AuditLogFilters struct {
	ShipmentID string
	EntityType string
	EntityID   string
	ActorID    string
	Action     string
	Limit      int
}

// EmployeeRepository defines the secondary port for employee persistence.
type EmployeeRepository interface {
	// Create persists a new employee.
	Create(ctx context.Context, employee *EmployeeRecord) error

	// GetByUsername retrieves an employee by username.
	GetByUsername(ctx context.Context, username string) (*EmployeeRecord, error)

	// Update updates an existing employee's name, role and active flag.
	Update(ctx context.Context, employee *EmployeeRecord) error

	// Delete removes an employee by username.
	Delete(ctx context.Context, username string) error

	// List retrieves employees matching the given filters, ordered by username.
	List(ctx context.Context, filters EmployeeFilters) ([]*EmployeeRecord, error)

	// Upsert creates or updates every employee in one transaction. Nothing is
	// written when any row fails.
	Upsert(ctx context.Context, employees []*EmployeeRecord) (created, updated int, err error)
}

// EmployeeRecord represents an employee as stored in persistence.
type EmployeeRecord struct {
	ID        string
	Username  string
	Name      string
	Role      string
	Active    bool
	CreatedAt string
	UpdatedAt string
}

// EmployeeFilters contains filter options for querying employees.
type EmployeeFilters struct {
	Role       string
	ActiveOnly bool
}
