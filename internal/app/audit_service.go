package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/shiptrack/internal/core/events"
	"github.com/example/shiptrack/internal/ports/primary"
	"github.com/example/shiptrack/internal/ports/secondary"
)

// AuditServiceImpl implements the AuditService interface. It is also the
// tracking store subscriber that turns domain events into audit entries.
type AuditServiceImpl struct {
	logRepo secondary.AuditLogRepository
	writer  secondary.LogWriter
	logger  *zap.Logger
}

// NewAuditService creates a new AuditService with injected dependencies.
func NewAuditService(logRepo secondary.AuditLogRepository, writer secondary.LogWriter, logger *zap.Logger) *AuditServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditServiceImpl{
		logRepo: logRepo,
		writer:  writer,
		logger:  logger,
	}
}

// HandleEvent records ev. Audit failures are logged and never propagate:
// the tracking change they describe is already committed.
func (s *AuditServiceImpl) HandleEvent(ctx context.Context, ev events.Event) {
	if err := s.record(ctx, ev); err != nil {
		s.logger.Warn("failed to write audit log", zap.String("event", ev.EventType()), zap.Error(err))
	}
}

func (s *AuditServiceImpl) record(ctx context.Context, ev events.Event) error {
	action := ev.EventType()

	switch e := ev.(type) {
	case events.ShipmentAdded:
		return s.writer.LogCreate(ctx, action, shipmentScope(e.ShipmentID))
	case events.ShipmentStatusChanged:
		return s.writer.LogUpdate(ctx, action, shipmentScope(e.ShipmentID), "status", e.From, e.To)
	case events.ShipmentRemoved:
		return s.writer.LogDelete(ctx, action, shipmentScope(e.ShipmentID))
	case events.BillingAdded:
		return s.writer.LogCreate(ctx, action, billingScope(e.ShipmentID, e.BillingID))
	case events.BillingStatusChanged:
		return s.writer.LogUpdate(ctx, action, billingScope(e.ShipmentID, e.BillingID), "status", e.From, e.To)
	case events.BillingRemoved:
		return s.writer.LogDelete(ctx, action, billingScope(e.ShipmentID, e.BillingID))
	case events.ItemAdded:
		return s.writer.LogCreate(ctx, action, itemScope(e.ShipmentID, e.BillingID, e.ItemID))
	case events.ItemRemoved:
		return s.writer.LogDelete(ctx, action, itemScope(e.ShipmentID, e.BillingID, e.ItemID))
	case events.ActiveBillingChanged:
		if e.Cleared() {
			return s.writer.LogUpdate(ctx, action, billingScope(e.PreviousShipmentID, e.PreviousBillingID), "active_billing", e.PreviousBillingID, "")
		}
		return s.writer.LogUpdate(ctx, action, billingScope(e.ShipmentID, e.BillingID), "active_billing", e.PreviousBillingID, e.BillingID)
	default:
		return fmt.Errorf("unknown event type: %T", ev)
	}
}

// ListLogs retrieves audit entries matching the given filters, newest first.
func (s *AuditServiceImpl) ListLogs(ctx context.Context, filters primary.AuditFilters) ([]*primary.AuditEntry, error) {
	records, err := s.logRepo.List(ctx, secondary.AuditLogFilters{
		ShipmentID: filters.ShipmentID,
		EntityType: filters.EntityType,
		EntityID:   filters.EntityID,
		ActorID:    filters.ActorID,
		Action:     filters.Action,
		Limit:      filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}

	entries := make([]*primary.AuditEntry, len(records))
	for i, r := range records {
		entries[i] = s.recordToAuditEntry(r)
	}
	return entries, nil
}

// GetLog retrieves a single audit entry by ID.
func (s *AuditServiceImpl) GetLog(ctx context.Context, id string) (*primary.AuditEntry, error) {
	record, err := s.logRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.recordToAuditEntry(record), nil
}

// PruneLogs deletes audit entries older than the specified number of days.
func (s *AuditServiceImpl) PruneLogs(ctx context.Context, olderThanDays int) (int, error) {
	if olderThanDays < 1 {
		return 0, fmt.Errorf("retention must be at least 1 day (got %d)", olderThanDays)
	}
	count, err := s.logRepo.PruneOlderThan(ctx, olderThanDays)
	if err != nil {
		return 0, err
	}
	s.logger.Info("audit logs pruned", zap.Int("days", olderThanDays), zap.Int("count", count))
	return count, nil
}

// Helper methods

func (s *AuditServiceImpl) recordToAuditEntry(r *secondary.AuditLogRecord) *primary.AuditEntry {
	return &primary.AuditEntry{
		ID:         r.ID,
		Timestamp:  r.Timestamp,
		ActorID:    r.ActorID,
		Action:     r.Action,
		EntityType: r.EntityType,
		EntityID:   r.EntityID,
		ShipmentID: r.ShipmentID,
		BillingID:  r.BillingID,
		FieldName:  r.FieldName,
		OldValue:   r.OldValue,
		NewValue:   r.NewValue,
	}
}

func shipmentScope(shipmentID string) secondary.LogScope {
	return secondary.LogScope{EntityType: events.EntityShipment, EntityID: shipmentID, ShipmentID: shipmentID}
}

func billingScope(shipmentID, billingID string) secondary.LogScope {
	return secondary.LogScope{EntityType: events.EntityBilling, EntityID: billingID, ShipmentID: shipmentID, BillingID: billingID}
}

func itemScope(shipmentID, billingID, itemID string) secondary.LogScope {
	return secondary.LogScope{EntityType: events.EntityItem, EntityID: itemID, ShipmentID: shipmentID, BillingID: billingID}
}

// Ensure AuditServiceImpl implements the interfaces
var (
	_ primary.AuditService = (*AuditServiceImpl)(nil)
	_ EventHandler         = (*AuditServiceImpl)(nil)
)
