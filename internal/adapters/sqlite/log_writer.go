package sqlite

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/example/shiptrack/internal/ctxutil"
	"github.com/example/shiptrack/internal/ports/secondary"
)

// LogWriterAdapter implements secondary.LogWriter using AuditLogRepository.
type LogWriterAdapter struct {
	logRepo secondary.AuditLogRepository
	now     func() time.Time
	newID   func() string
}

// NewLogWriterAdapter creates a new LogWriterAdapter.
func NewLogWriterAdapter(logRepo secondary.AuditLogRepository) *LogWriterAdapter {
	return &LogWriterAdapter{
		logRepo: logRepo,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// LogCreate logs a create operation for an entity.
func (w *LogWriterAdapter) LogCreate(ctx context.Context, action string, scope secondary.LogScope) error {
	return w.writeLog(ctx, action, scope, "", "", "")
}

// LogUpdate logs an update operation for an entity field.
func (w *LogWriterAdapter) LogUpdate(ctx context.Context, action string, scope secondary.LogScope, fieldName, oldValue, newValue string) error {
	return w.writeLog(ctx, action, scope, fieldName, oldValue, newValue)
}

// LogDelete logs a delete operation for an entity.
func (w *LogWriterAdapter) LogDelete(ctx context.Context, action string, scope secondary.LogScope) error {
	return w.writeLog(ctx, action, scope, "", "", "")
}

// writeLog writes a log entry with common logic.
func (w *LogWriterAdapter) writeLog(ctx context.Context, action string, scope secondary.LogScope, fieldName, oldValue, newValue string) error {
	record := &secondary.AuditLogRecord{
		ID:         w.newID(),
		Timestamp:  w.now().UTC().Format(TimestampFormat),
		ActorID:    ctxutil.ActorFromContext(ctx),
		Action:     action,
		EntityType: scope.EntityType,
		EntityID:   scope.EntityID,
		ShipmentID: scope.ShipmentID,
		BillingID:  scope.BillingID,
		FieldName:  fieldName,
		OldValue:   oldValue,
		NewValue:   newValue,
	}

	return w.logRepo.Create(ctx, record)
}

// Ensure LogWriterAdapter implements the interface
var _ secondary.LogWriter = (*LogWriterAdapter)(nil)
