package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	coreerrors "github.com/example/shiptrack/internal/core/errors"
	"github.com/example/shiptrack/internal/ports/primary"
)

type billingFixture struct {
	adapter   *BillingAdapter
	shipments *mockShipmentService
	billings  *mockBillingService
	items     *mockItemService
	out       *bytes.Buffer
}

func newBillingFixture(answers string) *billingFixture {
	f := &billingFixture{
		shipments: &mockShipmentService{current: &primary.Shipment{ID: "SH-1", Status: "PENDING"}},
		billings:  &mockBillingService{kind: primary.ResolutionNew},
		items:     &mockItemService{},
		out:       &bytes.Buffer{},
	}
	f.adapter = NewBillingAdapter(f.shipments, f.billings, f.items, NewPrompter(strings.NewReader(answers), f.out), f.out)
	return f
}

func TestBillingAdapter_Add(t *testing.T) {
	tests := []struct {
		name        string
		kind        string
		answers     string
		wantConfirm bool
		wantOutput  string
	}{
		{"new confirmed", primary.ResolutionNew, "y\n", true, "Added billing BILL000001 to shipment SH-1"},
		{"new declined", primary.ResolutionNew, "n\n", false, "Cancelled"},
		{"continue needs no prompt", primary.ResolutionContinue, "", true, "Continuing billing BILL000001"},
		{"reopen confirmed", primary.ResolutionReopen, "y\n", true, "Reopened billing BILL000001"},
		{"reopen declined", primary.ResolutionReopen, "\n", false, "is COMPLETED with 1 item(s)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBillingFixture(tt.answers)
			f.billings.kind = tt.kind

			if err := f.adapter.Add(context.Background(), "BILL000001", false); err != nil {
				t.Fatalf("Add failed: %v", err)
			}
			if got := len(f.billings.confirmed) == 1; got != tt.wantConfirm {
				t.Errorf("confirmed = %v, want %v", got, tt.wantConfirm)
			}
			if !strings.Contains(f.out.String(), tt.wantOutput) {
				t.Errorf("output missing %q:\n%s", tt.wantOutput, f.out.String())
			}
		})
	}
}

func TestBillingAdapter_RequiresCurrentShipment(t *testing.T) {
	f := newBillingFixture("y\n")
	f.shipments.current = nil
	ctx := context.Background()

	checks := map[string]error{
		"add":      f.adapter.Add(ctx, "BILL000001", true),
		"list":     f.adapter.List(ctx),
		"complete": f.adapter.Complete(ctx, "BILL000001"),
		"activate": f.adapter.Activate(ctx, "BILL000001"),
		"remove":   f.adapter.Remove(ctx, "BILL000001", true),
		"item rm":  f.adapter.RemoveItem(ctx, "BILL000001", "A"),
	}
	for name, err := range checks {
		if !errors.Is(err, coreerrors.ErrNoCurrentShipment) {
			t.Errorf("%s: expected ErrNoCurrentShipment, got %v", name, err)
		}
	}
}

func TestBillingAdapter_Lifecycle(t *testing.T) {
	f := newBillingFixture("y\n")
	ctx := context.Background()

	if err := f.adapter.Complete(ctx, "BILL000001"); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if err := f.adapter.Activate(ctx, "BILL000002"); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}
	if err := f.adapter.Remove(ctx, "BILL000003", false); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	if f.billings.completed[0] != "SH-1/BILL000001" || f.billings.activated[0] != "SH-1/BILL000002" || f.billings.removed[0] != "SH-1/BILL000003" {
		t.Errorf("unexpected calls %v %v %v", f.billings.completed, f.billings.activated, f.billings.removed)
	}
	output := f.out.String()
	for _, want := range []string{"Billing BILL000001 completed", "Active billing: SH-1/BILL000002", "Billing BILL000003 removed"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestBillingAdapter_List(t *testing.T) {
	f := newBillingFixture("")
	ctx := context.Background()

	if err := f.adapter.List(ctx); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if !strings.Contains(f.out.String(), "No billings in shipment SH-1") {
		t.Errorf("unexpected output %q", f.out.String())
	}

	f.out.Reset()
	f.billings.billings = []*primary.Billing{
		{ID: "BILL000001", Status: "SCANNING", Creator: "user", Items: []*primary.Item{{ID: "A"}}, Active: true},
	}
	if err := f.adapter.List(ctx); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if !strings.Contains(f.out.String(), "BILL000001") || !strings.Contains(f.out.String(), "active") {
		t.Errorf("unexpected output:\n%s", f.out.String())
	}
}

func TestBillingAdapter_Items(t *testing.T) {
	f := newBillingFixture("")
	ctx := context.Background()

	if err := f.adapter.AddItem(ctx, "ITEM-9"); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	if !strings.Contains(f.out.String(), "ITEM-9 → SH-1/BILL000001 (3 item(s))") {
		t.Errorf("unexpected output %q", f.out.String())
	}

	if err := f.adapter.RemoveItem(ctx, "BILL000001", "ITEM-9"); err != nil {
		t.Fatalf("RemoveItem failed: %v", err)
	}
	want := primary.RemoveItemRequest{ShipmentID: "SH-1", BillingID: "BILL000001", ItemID: "ITEM-9"}
	if f.items.removed[0] != want {
		t.Errorf("RemoveItem request = %+v, want %+v", f.items.removed[0], want)
	}

	f.out.Reset()
	f.items.traces = []*primary.ItemTrace{
		{ShipmentID: "SH-1", ShipmentStatus: "PENDING", BillingID: "BILL000001", Item: &primary.Item{ID: "ITEM-9", Creator: "user"}},
	}
	if err := f.adapter.TraceItem(ctx, "ITEM-9"); err != nil {
		t.Fatalf("TraceItem failed: %v", err)
	}
	if !strings.Contains(f.out.String(), "BILL000001") {
		t.Errorf("unexpected trace output:\n%s", f.out.String())
	}

	f.items.err = coreerrors.ErrNoActiveBilling
	if err := f.adapter.AddItem(ctx, "ITEM-10"); !errors.Is(err, coreerrors.ErrNoActiveBilling) {
		t.Errorf("expected ErrNoActiveBilling, got %v", err)
	}
}
