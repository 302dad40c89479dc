package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/shiptrack/internal/ports/secondary"
)

// TimestampFormat is the layout audit timestamps are stored in. It sorts
// lexically and compares directly against SQLite's datetime().
const TimestampFormat = "2006-01-02 15:04:05"

// AuditLogRepository implements secondary.AuditLogRepository with SQLite.
type AuditLogRepository struct {
	db *sql.DB
}

// NewAuditLogRepository creates a new SQLite audit log repository.
func NewAuditLogRepository(db *sql.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// Create persists a new audit entry. An empty Timestamp defaults to now.
func (r *AuditLogRepository) Create(ctx context.Context, log *secondary.AuditLogRecord) error {
	timestamp := log.Timestamp
	if timestamp == "" {
		timestamp = time.Now().UTC().Format(TimestampFormat)
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_logs (id, timestamp, actor_id, action, entity_type, entity_id, shipment_id, billing_id, field_name, old_value, new_value) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID,
		timestamp,
		nullString(log.ActorID),
		log.Action,
		log.EntityType,
		log.EntityID,
		nullString(log.ShipmentID),
		nullString(log.BillingID),
		nullString(log.FieldName),
		nullString(log.OldValue),
		nullString(log.NewValue),
	)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}

	return nil
}

// GetByID retrieves an audit entry by its ID.
func (r *AuditLogRepository) GetByID(ctx context.Context, id string) (*secondary.AuditLogRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, timestamp, actor_id, action, entity_type, entity_id, shipment_id, billing_id, field_name, old_value, new_value FROM audit_logs WHERE id = ?`,
		id,
	)
	record, err := scanAuditLog(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("audit log %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log: %w", err)
	}
	return record, nil
}

// List retrieves audit entries matching the given filters, newest first.
func (r *AuditLogRepository) List(ctx context.Context, filters secondary.AuditLogFilters) ([]*secondary.AuditLogRecord, error) {
	query := `SELECT id, timestamp, actor_id, action, entity_type, entity_id, shipment_id, billing_id, field_name, old_value, new_value FROM audit_logs WHERE 1=1`
	args := []any{}

	if filters.ShipmentID != "" {
		query += " AND shipment_id = ?"
		args = append(args, filters.ShipmentID)
	}

	if filters.EntityType != "" {
		query += " AND entity_type = ?"
		args = append(args, filters.EntityType)
	}

	if filters.EntityID != "" {
		query += " AND entity_id = ?"
		args = append(args, filters.EntityID)
	}

	if filters.ActorID != "" {
		query += " AND actor_id = ?"
		args = append(args, filters.ActorID)
	}

	if filters.Action != "" {
		query += " AND action = ?"
		args = append(args, filters.Action)
	}

	// rowid breaks ties between entries written in the same second
	query += " ORDER BY timestamp DESC, rowid DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	var logs []*secondary.AuditLogRecord
	for rows.Next() {
		record, err := scanAuditLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}
		logs = append(logs, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}

	return logs, nil
}

// PruneOlderThan deletes entries older than the given number of days.
func (r *AuditLogRepository) PruneOlderThan(ctx context.Context, days int) (int, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM audit_logs WHERE timestamp < datetime('now', ?)",
		fmt.Sprintf("-%d days", days),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune audit logs: %w", err)
	}

	count, _ := result.RowsAffected()
	return int(count), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAuditLog(row rowScanner) (*secondary.AuditLogRecord, error) {
	var (
		actorID    sql.NullString
		shipmentID sql.NullString
		billingID  sql.NullString
		fieldName  sql.NullString
		oldValue   sql.NullString
		newValue   sql.NullString
		timestamp  time.Time
	)

	record := &secondary.AuditLogRecord{}
	err := row.Scan(&record.ID,
		&timestamp,
		&actorID,
		&record.Action,
		&record.EntityType,
		&record.EntityID,
		&shipmentID,
		&billingID,
		&fieldName,
		&oldValue,
		&newValue)
	if err != nil {
		return nil, err
	}
	record.Timestamp = timestamp.UTC().Format(time.RFC3339)
	record.ActorID = actorID.String
	record.ShipmentID = shipmentID.String
	record.BillingID = billingID.String
	record.FieldName = fieldName.String
	record.OldValue = oldValue.String
	record.NewValue = newValue.String
	return record, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// Ensure AuditLogRepository implements the interface
var _ secondary.AuditLogRepository = (*AuditLogRepository)(nil)
