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

func newTestShipmentAdapter(answers string) (*ShipmentAdapter, *mockShipmentService, *bytes.Buffer) {
	service := &mockShipmentService{}
	out := &bytes.Buffer{}
	adapter := NewShipmentAdapter(service, NewPrompter(strings.NewReader(answers), out), out)
	return adapter, service, out
}

func TestShipmentAdapter_Resolve(t *testing.T) {
	tests := []struct {
		name        string
		answers     string
		assumeYes   bool
		wantConfirm bool
		wantOutput  string
	}{
		{"confirmed at prompt", "y\n", false, true, "Created shipment SH-1"},
		{"yes spelled out", "YES\n", false, true, "Created shipment SH-1"},
		{"declined", "n\n", false, false, "Cancelled. Nothing was changed."},
		{"no answer", "", false, false, "Cancelled. Nothing was changed."},
		{"assume yes", "", true, true, "Created shipment SH-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter, service, out := newTestShipmentAdapter(tt.answers)

			err := adapter.Resolve(context.Background(), primary.ConfirmShipmentRequest{Code: "SH-1", Name: "Order"}, tt.assumeYes)
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if got := len(service.confirmed) == 1; got != tt.wantConfirm {
				t.Errorf("confirmed = %v, want %v", got, tt.wantConfirm)
			}
			if !strings.Contains(out.String(), tt.wantOutput) {
				t.Errorf("output missing %q:\n%s", tt.wantOutput, out.String())
			}
		})
	}
}

func TestShipmentAdapter_ResolveContinuePrintsLink(t *testing.T) {
	adapter, service, out := newTestShipmentAdapter("")
	service.resolveFn = func(ctx context.Context, code string) (*primary.ShipmentResolution, error) {
		return &primary.ShipmentResolution{
			Kind: primary.ResolutionContinue,
			Shipment: &primary.Shipment{ID: code, Status: "PENDING", Billings: []*primary.Billing{
				{ID: "BILL000001", Items: []*primary.Item{{ID: "A"}, {ID: "B"}}},
			}},
		}, nil
	}

	if err := adapter.Resolve(context.Background(), primary.ConfirmShipmentRequest{Code: "SH-1"}, true); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	output := out.String()
	for _, want := range []string{"1 billing(s), 2 item(s)", "Opened shipment SH-1", "shiptrack://shipments?code=SH-1"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestShipmentAdapter_ResolveRefused(t *testing.T) {
	adapter, service, _ := newTestShipmentAdapter("y\n")
	service.resolveFn = func(ctx context.Context, code string) (*primary.ShipmentResolution, error) {
		return nil, coreerrors.ErrShipmentFinalized
	}

	err := adapter.Resolve(context.Background(), primary.ConfirmShipmentRequest{Code: "SH-1"}, false)
	if !errors.Is(err, coreerrors.ErrShipmentFinalized) {
		t.Errorf("expected ErrShipmentFinalized, got %v", err)
	}
	if len(service.confirmed) != 0 {
		t.Error("refused resolution must not confirm")
	}
}

func TestShipmentAdapter_Show(t *testing.T) {
	adapter, service, out := newTestShipmentAdapter("")
	service.current = &primary.Shipment{
		ID: "SH-1", Status: "PENDING", Name: "Order", Origin: "Lyon", Creator: "user",
		Billings: []*primary.Billing{
			{ID: "BILL000001", Status: "SCANNING", Items: []*primary.Item{{ID: "A"}}, Active: true},
			{ID: "BILL000002", Status: "COMPLETED"},
		},
	}

	shipment, err := adapter.Show(context.Background(), "")
	if err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	if shipment.ID != "SH-1" {
		t.Errorf("expected SH-1, got %s", shipment.ID)
	}
	output := out.String()
	for _, want := range []string{"Shipment: SH-1", "Name:     Order", "Lyon → -", "BILL000001", "active", "BILL000002"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}

	if _, err := adapter.Show(context.Background(), "NOPE"); !errors.Is(err, coreerrors.ErrShipmentNotFound) {
		t.Errorf("expected ErrShipmentNotFound, got %v", err)
	}
}

func TestShipmentAdapter_List(t *testing.T) {
	adapter, service, out := newTestShipmentAdapter("")

	if err := adapter.List(context.Background(), primary.ShipmentFilters{}); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if !strings.Contains(out.String(), "No shipments found") {
		t.Errorf("expected empty message, got %q", out.String())
	}

	out.Reset()
	service.shipments = []*primary.Shipment{
		{ID: "SH-1", Status: "PENDING", Creator: "user", Current: true},
		{ID: "SH-2", Status: "COMPLETED", Creator: "admin"},
	}
	if err := adapter.List(context.Background(), primary.ShipmentFilters{}); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	output := out.String()
	if !strings.Contains(output, "SH-1") || !strings.Contains(output, "SH-2") {
		t.Errorf("expected both shipments:\n%s", output)
	}
	if !strings.Contains(output, "user *") {
		t.Errorf("expected current marker:\n%s", output)
	}

	service.err = errors.New("db down")
	if err := adapter.List(context.Background(), primary.ShipmentFilters{}); err == nil {
		t.Error("expected error")
	}
}

func TestShipmentAdapter_Transitions(t *testing.T) {
	adapter, service, out := newTestShipmentAdapter("")
	service.current = &primary.Shipment{ID: "SH-1"}
	ctx := context.Background()

	if err := adapter.Create(ctx, ""); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := adapter.Complete(ctx, "SH-2"); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if err := adapter.Cancel(ctx, "SH-3"); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	want := []string{"create:", "complete:SH-2", "cancel:SH-3"}
	for i, w := range want {
		if service.transitions[i] != w {
			t.Errorf("transition[%d] = %q, want %q", i, service.transitions[i], w)
		}
	}
	output := out.String()
	for _, w := range []string{"Shipment SH-1 created", "Shipment SH-2 marked as complete", "Shipment SH-3 cancelled"} {
		if !strings.Contains(output, w) {
			t.Errorf("output missing %q:\n%s", w, output)
		}
	}

	service.err = coreerrors.ErrInvalidTransition
	if err := adapter.Complete(ctx, "SH-2"); !errors.Is(err, coreerrors.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestShipmentAdapter_ClearDeleteLink(t *testing.T) {
	adapter, service, out := newTestShipmentAdapter("n\n")
	ctx := context.Background()

	if err := adapter.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if !service.cleared {
		t.Error("expected ClearShipment called")
	}

	if err := adapter.Delete(ctx, "SH-1", false); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(service.deleted) != 0 {
		t.Error("declined delete must not delete")
	}
	if err := adapter.Delete(ctx, "SH-1", true); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(service.deleted) != 1 {
		t.Error("expected delete with assumeYes")
	}

	if err := adapter.Link(ctx, ""); !errors.Is(err, coreerrors.ErrNoCurrentShipment) {
		t.Errorf("expected ErrNoCurrentShipment, got %v", err)
	}
	out.Reset()
	if err := adapter.Link(ctx, "SH 9"); err != nil {
		t.Fatalf("Link failed: %v", err)
	}
	if strings.TrimSpace(out.String()) != "shiptrack://shipments?code=SH 9" {
		t.Errorf("unexpected link %q", out.String())
	}
}
