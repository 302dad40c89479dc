package secondary

import "context"

// LogWriter defines the interface for writing audit log entries.
// Implementations take the actor from context and stamp id and time.
type LogWriter interface {
	// LogCreate logs a create operation for an entity.
	LogCreate(ctx context.Context, action string, scope LogScope) error

	// LogUpdate logs an update operation for an entity field.
	// fieldName, oldValue, newValue describe what changed.
	LogUpdate(ctx context.Context, action string, scope LogScope, fieldName, oldValue, newValue string) error

	// LogDelete logs a delete operation for an entity.
	LogDelete(ctx context.Context, action string, scope LogScope) error
}

// LogScope names the entity an audit entry is about and where it lives.
type LogScope struct {
	EntityType string
	EntityID   string
	ShipmentID string
	BillingID  string
}
