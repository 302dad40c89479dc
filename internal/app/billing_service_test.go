package app

import (
	"errors"
	"testing"

	coreerrors "github.com/example/shiptrack/internal/core/errors"
	"github.com/example/shiptrack/internal/ports/primary"
)

func TestResolveBilling(t *testing.T) {
	f := newTrackingFixture(t)
	ctx := userCtx()
	f.openShipment(t, ctx, "SH-1")
	f.scanBilling(t, ctx, "SH-1", "BILL000001", "ITEM-1")
	f.scanBilling(t, ctx, "SH-1", "BILL000002", "ITEM-2")
	if err := f.billings.CompleteBilling(ctx, "SH-1", "BILL000002"); err != nil {
		t.Fatalf("CompleteBilling failed: %v", err)
	}

	tests := []struct {
		name     string
		shipment string
		number   string
		wantKind string
		wantErr  error
	}{
		{"new", "SH-1", "BILL000003", primary.ResolutionNew, nil},
		{"trimmed", "SH-1", " BILL000003 ", primary.ResolutionNew, nil},
		{"continue", "SH-1", "BILL000001", primary.ResolutionContinue, nil},
		{"reopen", "SH-1", "BILL000002", primary.ResolutionReopen, nil},
		{"too short", "SH-1", "BILL1", "", coreerrors.ErrInvalidBillingNumber},
		{"too long", "SH-1", "BILL0000001", "", coreerrors.ErrInvalidBillingNumber},
		{"unknown shipment", "NOPE", "BILL000001", "", coreerrors.ErrShipmentNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.billings.ResolveBilling(ctx, tt.shipment, tt.number)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveBilling failed: %v", err)
			}
			if res.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", res.Kind, tt.wantKind)
			}
		})
	}

	// Resolution is read-only
	billings, _ := f.billings.ListBillings(ctx, "SH-1")
	if len(billings) != 2 {
		t.Errorf("expected 2 billings after resolving, got %d", len(billings))
	}
}

func TestConfirmBilling_NewBecomesActive(t *testing.T) {
	f := newTrackingFixture(t)
	ctx := userCtx()
	f.openShipment(t, ctx, "SH-1")

	res, err := f.billings.ConfirmBilling(ctx, "SH-1", "BILL000001")
	if err != nil {
		t.Fatalf("ConfirmBilling failed: %v", err)
	}
	if res.Kind != primary.ResolutionNew {
		t.Errorf("expected new, got %q", res.Kind)
	}
	if res.Billing.Status != "SCANNING" || !res.Billing.Active {
		t.Errorf("expected active SCANNING billing, got %+v", res.Billing)
	}
	if res.Billing.Creator != "user" {
		t.Errorf("expected creator 'user', got %q", res.Billing.Creator)
	}

	active, err := f.billings.ActiveBilling(ctx)
	if err != nil {
		t.Fatalf("ActiveBilling failed: %v", err)
	}
	if active == nil || active.ShipmentID != "SH-1" || active.BillingID != "BILL000001" {
		t.Errorf("unexpected active billing %+v", active)
	}
}

func TestConfirmBilling_ReopenCompleted(t *testing.T) {
	f := newTrackingFixture(t)
	ctx := userCtx()
	f.openShipment(t, ctx, "SH-1")
	f.scanBilling(t, ctx, "SH-1", "BILL000001", "ITEM-1")
	if err := f.billings.CompleteBilling(ctx, "SH-1", "BILL000001"); err != nil {
		t.Fatalf("CompleteBilling failed: %v", err)
	}
	if active, _ := f.billings.ActiveBilling(ctx); active != nil {
		t.Fatalf("expected completing the active billing to clear it, got %+v", active)
	}

	res, err := f.billings.ConfirmBilling(ctx, "SH-1", "BILL000001")
	if err != nil {
		t.Fatalf("ConfirmBilling failed: %v", err)
	}
	if res.Kind != primary.ResolutionReopen {
		t.Errorf("expected reopen, got %q", res.Kind)
	}
	if res.Billing.Status != "SCANNING" || !res.Billing.Active {
		t.Errorf("expected reopened active billing, got %+v", res.Billing)
	}
	if len(res.Billing.Items) != 1 {
		t.Errorf("expected items kept on reopen, got %d", len(res.Billing.Items))
	}
}

func TestConfirmBilling_NotEditable(t *testing.T) {
	f := newTrackingFixture(t)
	ctx := userCtx()
	f.openShipment(t, ctx, "SH-1")
	f.scanBilling(t, ctx, "SH-1", "BILL000001", "ITEM-1")
	if err := f.shipments.CreateShipment(ctx, "SH-1"); err != nil {
		t.Fatalf("CreateShipment failed: %v", err)
	}

	if _, err := f.billings.ConfirmBilling(ctx, "SH-1", "BILL000002"); !errors.Is(err, coreerrors.ErrShipmentNotEditable) {
		t.Errorf("expected ErrShipmentNotEditable, got %v", err)
	}
}

func TestActivateBilling(t *testing.T) {
	f := newTrackingFixture(t)
	ctx := userCtx()
	f.openShipment(t, ctx, "SH-1")
	f.scanBilling(t, ctx, "SH-1", "BILL000001", "ITEM-1")
	f.scanBilling(t, ctx, "SH-1", "BILL000002", "ITEM-2")

	if err := f.billings.ActivateBilling(ctx, "SH-1", "BILL000001"); err != nil {
		t.Fatalf("ActivateBilling failed: %v", err)
	}
	active, _ := f.billings.ActiveBilling(ctx)
	if active.BillingID != "BILL000001" {
		t.Errorf("expected BILL000001 active, got %s", active.BillingID)
	}

	if err := f.billings.CompleteBilling(ctx, "SH-1", "BILL000002"); err != nil {
		t.Fatalf("CompleteBilling failed: %v", err)
	}
	if active, _ := f.billings.ActiveBilling(ctx); active == nil || active.BillingID != "BILL000001" {
		t.Errorf("completing an inactive billing must not move the pointer, got %+v", active)
	}
	if err := f.billings.ActivateBilling(ctx, "SH-1", "BILL000002"); !errors.Is(err, coreerrors.ErrBillingCompleted) {
		t.Errorf("expected ErrBillingCompleted, got %v", err)
	}
	if err := f.billings.ActivateBilling(ctx, "SH-1", "BILL000009"); !errors.Is(err, coreerrors.ErrBillingNotFound) {
		t.Errorf("expected ErrBillingNotFound, got %v", err)
	}
}

func TestCompleteBilling_AlreadyCompleted(t *testing.T) {
	f := newTrackingFixture(t)
	ctx := userCtx()
	f.openShipment(t, ctx, "SH-1")
	f.scanBilling(t, ctx, "SH-1", "BILL000001", "ITEM-1")
	if err := f.billings.CompleteBilling(ctx, "SH-1", "BILL000001"); err != nil {
		t.Fatalf("CompleteBilling failed: %v", err)
	}
	if err := f.billings.CompleteBilling(ctx, "SH-1", "BILL000001"); !errors.Is(err, coreerrors.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestRemoveBilling(t *testing.T) {
	f := newTrackingFixture(t)
	ctx := userCtx()
	f.openShipment(t, ctx, "SH-1")
	f.scanBilling(t, ctx, "SH-1", "BILL000001", "ITEM-1", "ITEM-2")

	if err := f.billings.RemoveBilling(ctx, "SH-1", "BILL000001"); err != nil {
		t.Fatalf("RemoveBilling failed: %v", err)
	}
	billings, err := f.billings.ListBillings(ctx, "SH-1")
	if err != nil {
		t.Fatalf("ListBillings failed: %v", err)
	}
	if len(billings) != 0 {
		t.Errorf("expected no billings, got %d", len(billings))
	}
	if active, _ := f.billings.ActiveBilling(ctx); active != nil {
		t.Errorf("expected active billing cleared, got %+v", active)
	}
	if err := f.billings.RemoveBilling(ctx, "SH-1", "BILL000001"); !errors.Is(err, coreerrors.ErrBillingNotFound) {
		t.Errorf("expected ErrBillingNotFound, got %v", err)
	}
}

func TestListBillings_UnknownShipment(t *testing.T) {
	f := newTrackingFixture(t)
	if _, err := f.billings.ListBillings(userCtx(), "NOPE"); !errors.Is(err, coreerrors.ErrShipmentNotFound) {
		t.Errorf("expected ErrShipmentNotFound, got %v", err)
	}
}
