package sqlite_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/example/shiptrack/internal/adapters/sqlite"
	"github.com/example/shiptrack/internal/ports/secondary"
)

func TestAuditLogRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAuditLogRepository(db)
	ctx := context.Background()

	t.Run("creates log with all fields", func(t *testing.T) {
		record := &secondary.AuditLogRecord{
			ID:         "AL-0001",
			Timestamp:  "2026-03-01 10:00:00",
			ActorID:    "admin",
			Action:     "billing_status_changed",
			EntityType: "billing",
			EntityID:   "BILL000001",
			ShipmentID: "SH001",
			BillingID:  "BILL000001",
			FieldName:  "status",
			OldValue:   "SCANNING",
			NewValue:   "COMPLETED",
		}

		if err := repo.Create(ctx, record); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		got, err := repo.GetByID(ctx, "AL-0001")
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}

		if got.Timestamp != "2026-03-01T10:00:00Z" {
			t.Errorf("Timestamp = %q, want %q", got.Timestamp, "2026-03-01T10:00:00Z")
		}
		if got.ActorID != "admin" {
			t.Errorf("ActorID = %q, want %q", got.ActorID, "admin")
		}
		if got.Action != "billing_status_changed" {
			t.Errorf("Action = %q, want %q", got.Action, "billing_status_changed")
		}
		if got.EntityType != "billing" {
			t.Errorf("EntityType = %q, want %q", got.EntityType, "billing")
		}
		if got.ShipmentID != "SH001" {
			t.Errorf("ShipmentID = %q, want %q", got.ShipmentID, "SH001")
		}
		if got.BillingID != "BILL000001" {
			t.Errorf("BillingID = %q, want %q", got.BillingID, "BILL000001")
		}
		if got.FieldName != "status" {
			t.Errorf("FieldName = %q, want %q", got.FieldName, "status")
		}
		if got.OldValue != "SCANNING" {
			t.Errorf("OldValue = %q, want %q", got.OldValue, "SCANNING")
		}
		if got.NewValue != "COMPLETED" {
			t.Errorf("NewValue = %q, want %q", got.NewValue, "COMPLETED")
		}
	})

	t.Run("creates log with nullable fields null", func(t *testing.T) {
		record := &secondary.AuditLogRecord{
			ID:         "AL-0002",
			Action:     "shipment_added",
			EntityType: "shipment",
			EntityID:   "SH002",
		}

		if err := repo.Create(ctx, record); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		got, err := repo.GetByID(ctx, "AL-0002")
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if got.ActorID != "" || got.ShipmentID != "" || got.FieldName != "" {
			t.Errorf("expected empty nullable fields, got %+v", got)
		}
		if got.Timestamp == "" {
			t.Error("Timestamp should default to now")
		}
	})

	t.Run("rejects unknown entity type", func(t *testing.T) {
		err := repo.Create(ctx, &secondary.AuditLogRecord{
			ID:         "AL-0003",
			Action:     "x",
			EntityType: "pallet",
			EntityID:   "P1",
		})
		if err == nil {
			t.Error("expected CHECK constraint error")
		}
	})
}

func TestAuditLogRepository_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAuditLogRepository(db)

	_, err := repo.GetByID(context.Background(), "AL-9999")
	if err == nil {
		t.Fatal("expected error for missing log")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error = %q, want it to contain 'not found'", err)
	}
}

func TestAuditLogRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAuditLogRepository(db)
	ctx := context.Background()

	seedAuditLog(t, db, "AL-1", "2026-03-01 09:00:00", "shipment_added", "SH001")
	seedAuditLog(t, db, "AL-2", "2026-03-01 10:00:00", "billing_added", "SH001")
	seedAuditLog(t, db, "AL-3", "2026-03-01 11:00:00", "shipment_added", "SH002")

	tests := []struct {
		name    string
		filters secondary.AuditLogFilters
		wantIDs []string
	}{
		{"all newest first", secondary.AuditLogFilters{}, []string{"AL-3", "AL-2", "AL-1"}},
		{"by shipment", secondary.AuditLogFilters{ShipmentID: "SH001"}, []string{"AL-2", "AL-1"}},
		{"by action", secondary.AuditLogFilters{Action: "shipment_added"}, []string{"AL-3", "AL-1"}},
		{"with limit", secondary.AuditLogFilters{Limit: 1}, []string{"AL-3"}},
		{"no match", secondary.AuditLogFilters{ActorID: "nobody"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs, err := repo.List(ctx, tt.filters)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(logs) != len(tt.wantIDs) {
				t.Fatalf("got %d logs, want %d", len(logs), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if logs[i].ID != id {
					t.Errorf("logs[%d].ID = %q, want %q", i, logs[i].ID, id)
				}
			}
		})
	}
}

func TestAuditLogRepository_PruneOlderThan(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAuditLogRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	seedAuditLog(t, db, "AL-OLD", now.AddDate(0, 0, -40).Format(sqlite.TimestampFormat), "shipment_added", "SH001")
	seedAuditLog(t, db, "AL-NEW", now.AddDate(0, 0, -1).Format(sqlite.TimestampFormat), "shipment_added", "SH002")

	count, err := repo.PruneOlderThan(ctx, 30)
	if err != nil {
		t.Fatalf("PruneOlderThan failed: %v", err)
	}
	if count != 1 {
		t.Errorf("pruned = %d, want 1", count)
	}

	if _, err := repo.GetByID(ctx, "AL-OLD"); err == nil {
		t.Error("old entry should be pruned")
	}
	if _, err := repo.GetByID(ctx, "AL-NEW"); err != nil {
		t.Errorf("recent entry should survive: %v", err)
	}
}
