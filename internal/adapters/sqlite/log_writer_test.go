package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/shiptrack/internal/adapters/sqlite"
	"github.com/example/shiptrack/internal/ctxutil"
	"github.com/example/shiptrack/internal/ports/secondary"
)

func TestLogWriterAdapter(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAuditLogRepository(db)
	writer := sqlite.NewLogWriterAdapter(repo)
	ctx := ctxutil.WithActorID(context.Background(), "user")

	scope := secondary.LogScope{EntityType: "item", EntityID: "ITEM-1", ShipmentID: "SH001", BillingID: "BILL000001"}
	if err := writer.LogCreate(ctx, "item_added", scope); err != nil {
		t.Fatalf("LogCreate failed: %v", err)
	}
	billing := secondary.LogScope{EntityType: "billing", EntityID: "BILL000001", ShipmentID: "SH001", BillingID: "BILL000001"}
	if err := writer.LogUpdate(ctx, "billing_status_changed", billing, "status", "SCANNING", "COMPLETED"); err != nil {
		t.Fatalf("LogUpdate failed: %v", err)
	}
	if err := writer.LogDelete(context.Background(), "item_removed", scope); err != nil {
		t.Fatalf("LogDelete failed: %v", err)
	}

	logs, err := repo.List(context.Background(), secondary.AuditLogFilters{ShipmentID: "SH001"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("got %d logs, want 3", len(logs))
	}

	byAction := map[string]*secondary.AuditLogRecord{}
	for _, l := range logs {
		if l.ID == "" {
			t.Error("log written without an ID")
		}
		byAction[l.Action] = l
	}

	if got := byAction["item_added"]; got == nil || got.ActorID != "user" || got.BillingID != "BILL000001" {
		t.Errorf("item_added entry = %+v", got)
	}
	if got := byAction["billing_status_changed"]; got == nil || got.OldValue != "SCANNING" || got.NewValue != "COMPLETED" {
		t.Errorf("billing_status_changed entry = %+v", got)
	}
	if got := byAction["item_removed"]; got == nil || got.ActorID != "" {
		t.Errorf("item_removed entry should have no actor, got %+v", got)
	}
}
