package primary

import "context"

// AuditService defines the primary port for audit log operations.
type AuditService interface {
	// ListLogs retrieves audit entries matching the given filters, newest first.
	ListLogs(ctx context.Context, filters AuditFilters) ([]*AuditEntry, error)

	// GetLog retrieves a single audit entry by ID.
	GetLog(ctx context.Context, id string) (*AuditEntry, error)

	// PruneLogs deletes audit entries older than the specified number of days.
	PruneLogs(ctx context.Context, olderThanDays int) (int, error)
}

// AuditEntry represents an audit log entry at the port boundary.
type AuditEntry struct {
	ID         string
	Timestamp  string
	ActorID    string
	Action     string // event type, e.g. billing_added
	EntityType string // shipment, billing or item
	EntityID   string
	ShipmentID string
	BillingID  string
	FieldName  string // for updates only
	OldValue   string
	NewValue   string
}

// AuditFilters contains filter options for querying audit entries.
type AuditFilters struct {
	ShipmentID string
	EntityType string
	EntityID   string
	ActorID    string
	Action     string
	Limit      int
}
