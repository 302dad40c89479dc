package app

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/example/shiptrack/internal/core/events"
	"github.com/example/shiptrack/internal/core/tracking"
	"github.com/example/shiptrack/internal/ports/secondary"
)

func newTestStore(t *testing.T) (*TrackingStore, *mockStateRepository) {
	t.Helper()
	repo := newMockStateRepository()
	store := NewTrackingStore(repo, nil)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return store, repo
}

func pendingShipment(id string) tracking.Shipment {
	return tracking.Shipment{ID: id, Status: tracking.ShipmentPending, Billings: []tracking.Billing{}}
}

func TestTrackingStore_DispatchPersistsAndPublishes(t *testing.T) {
	ctx := context.Background()
	store, repo := newTestStore(t)

	var got []string
	store.Subscribe(EventHandlerFunc(func(ctx context.Context, ev events.Event) {
		got = append(got, ev.EventType())
	}))

	evs, err := store.Dispatch(ctx,
		tracking.AddShipment{Shipment: pendingShipment("SH-1")},
		tracking.AddBilling{ShipmentID: "SH-1", Billing: tracking.Billing{ID: "BILL000001", Status: tracking.BillingScanning}},
	)
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if len(evs) != 2 {
		t.Fatalf("expected 2 events, got %d", len(evs))
	}
	if len(got) != 2 || got[0] != "shipment_added" || got[1] != "billing_added" {
		t.Errorf("published events = %v", got)
	}

	data, found, _ := repo.Load(ctx, secondary.StateKeyShipments)
	if !found {
		t.Fatal("expected shipments key to be persisted")
	}
	var persisted tracking.State
	if err := json.Unmarshal(data, &persisted); err != nil {
		t.Fatalf("persisted state is not JSON: %v", err)
	}
	if len(persisted.Shipments) != 1 || len(persisted.Shipments[0].Billings) != 1 {
		t.Errorf("persisted state = %+v", persisted)
	}
}

func TestTrackingStore_NoEventsNoWrite(t *testing.T) {
	ctx := context.Background()
	store, repo := newTestStore(t)

	if _, err := store.Dispatch(ctx, tracking.AddShipment{Shipment: pendingShipment("SH-1")}); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	saves := repo.saves

	// Re-adding is idempotent and emits nothing
	evs, err := store.Dispatch(ctx, tracking.AddShipment{Shipment: pendingShipment("SH-1")})
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if len(evs) != 0 {
		t.Errorf("expected no events, got %d", len(evs))
	}
	if repo.saves != saves {
		t.Errorf("expected no write, saves went from %d to %d", saves, repo.saves)
	}
}

func TestTrackingStore_PersistFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	store, repo := newTestStore(t)

	published := 0
	store.Subscribe(EventHandlerFunc(func(context.Context, events.Event) { published++ }))

	repo.saveErr = errBoom
	_, err := store.Dispatch(ctx, tracking.AddShipment{Shipment: pendingShipment("SH-1")})
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected errBoom, got %v", err)
	}
	if n := len(store.Snapshot().Shipments); n != 0 {
		t.Errorf("expected state unchanged, got %d shipments", n)
	}
	if published != 0 {
		t.Errorf("expected no events published, got %d", published)
	}
}

func TestTrackingStore_ReducerErrorAbortsBatch(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	_, err := store.Dispatch(ctx,
		tracking.AddShipment{Shipment: pendingShipment("SH-1")},
		tracking.AddBilling{ShipmentID: "MISSING", Billing: tracking.Billing{ID: "BILL000001"}},
	)
	if err == nil {
		t.Fatal("expected error")
	}
	if n := len(store.Snapshot().Shipments); n != 0 {
		t.Errorf("expected whole batch rolled back, got %d shipments", n)
	}
}

func TestTrackingStore_PlannerErrorAborts(t *testing.T) {
	store, repo := newTestStore(t)

	_, err := store.Update(context.Background(), func(tracking.State) ([]tracking.Action, error) {
		return nil, errBoom
	})
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected errBoom, got %v", err)
	}
	if repo.saves != 0 {
		t.Errorf("expected no writes, got %d", repo.saves)
	}
}

func TestTrackingStore_LoadRestoresSnapshot(t *testing.T) {
	ctx := context.Background()
	store, repo := newTestStore(t)

	if _, err := store.Dispatch(ctx, tracking.AddShipment{Shipment: pendingShipment("SH-1")}); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	reopened := NewTrackingStore(repo, nil)
	if err := reopened.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok := reopened.Snapshot().Shipment("SH-1"); !ok {
		t.Error("expected SH-1 after reload")
	}
}

func TestTrackingStore_LoadRejectsCorruptState(t *testing.T) {
	repo := newMockStateRepository()
	repo.values[secondary.StateKeyShipments] = []byte(`{"shipments":`)

	store := NewTrackingStore(repo, nil)
	if err := store.Load(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestTrackingStore_SnapshotIsStable(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	if _, err := store.Dispatch(ctx, tracking.AddShipment{Shipment: pendingShipment("SH-1")}); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	before := store.Snapshot()

	if _, err := store.Dispatch(ctx, tracking.AddShipment{Shipment: pendingShipment("SH-2")}); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if len(before.Shipments) != 1 {
		t.Errorf("earlier snapshot changed: %d shipments", len(before.Shipments))
	}
}
