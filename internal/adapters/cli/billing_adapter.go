package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/shiptrack/internal/ports/primary"
)

// BillingAdapter is a thin adapter that translates CLI operations to
// BillingService and ItemService calls within the current shipment.
type BillingAdapter struct {
	shipments primary.ShipmentService
	billings  primary.BillingService
	items     primary.ItemService
	prompt    *Prompter
	out       io.Writer
}

// NewBillingAdapter creates a new BillingAdapter with the given services.
func NewBillingAdapter(
	shipments primary.ShipmentService,
	billings primary.BillingService,
	items primary.ItemService,
	prompt *Prompter,
	out io.Writer,
) *BillingAdapter {
	return &BillingAdapter{
		shipments: shipments,
		billings:  billings,
		items:     items,
		prompt:    prompt,
		out:       out,
	}
}

// Add enters a billing number into the current shipment. A new number is
// created, a completed one reopened, and either way the billing becomes
// active once confirmed.
func (a *BillingAdapter) Add(ctx context.Context, number string, assumeYes bool) error {
	current, err := a.shipments.CurrentShipment(ctx)
	if err != nil {
		return err
	}

	resolution, err := a.billings.ResolveBilling(ctx, current.ID, number)
	if err != nil {
		return err
	}

	switch resolution.Kind {
	case primary.ResolutionNew:
		if !assumeYes && (a.prompt == nil || !a.prompt.Confirm(fmt.Sprintf("Add billing %s to shipment %s?", resolution.Billing.ID, current.ID))) {
			fmt.Fprintln(a.out, "Cancelled. Nothing was changed.")
			return nil
		}
	case primary.ResolutionReopen:
		fmt.Fprintf(a.out, "%s Billing %s is COMPLETED with %d item(s).\n", warnMark, resolution.Billing.ID, len(resolution.Billing.Items))
		if !assumeYes && (a.prompt == nil || !a.prompt.Confirm("Reopen it for scanning?")) {
			fmt.Fprintln(a.out, "Cancelled. Nothing was changed.")
			return nil
		}
	}

	confirmed, err := a.billings.ConfirmBilling(ctx, current.ID, number)
	if err != nil {
		return err
	}

	switch confirmed.Kind {
	case primary.ResolutionNew:
		fmt.Fprintf(a.out, "%s Added billing %s to shipment %s\n", okMark, confirmed.Billing.ID, current.ID)
	case primary.ResolutionReopen:
		fmt.Fprintf(a.out, "%s Reopened billing %s\n", okMark, confirmed.Billing.ID)
	default:
		fmt.Fprintf(a.out, "%s Continuing billing %s (%d item(s))\n", okMark, confirmed.Billing.ID, len(confirmed.Billing.Items))
	}
	fmt.Fprintf(a.out, "  Active billing: %s/%s\n", current.ID, confirmed.Billing.ID)
	return nil
}

// List lists the billings of the current shipment.
func (a *BillingAdapter) List(ctx context.Context) error {
	current, err := a.shipments.CurrentShipment(ctx)
	if err != nil {
		return err
	}
	billings, err := a.billings.ListBillings(ctx, current.ID)
	if err != nil {
		return fmt.Errorf("failed to list billings: %w", err)
	}

	if len(billings) == 0 {
		fmt.Fprintf(a.out, "No billings in shipment %s\n", current.ID)
		return nil
	}

	fmt.Fprintf(a.out, "\n%-12s %-10s %-6s %s\n", "BILLING", "STATUS", "ITEMS", "CREATOR")
	fmt.Fprintln(a.out, rule)
	for _, b := range billings {
		fmt.Fprintf(a.out, "%-12s %-10s %-6d %s%s\n", b.ID, colorStatus(b.Status), len(b.Items), orDash(b.Creator), activeMarker(b.Active))
	}
	fmt.Fprintln(a.out)
	return nil
}

// Complete marks a billing of the current shipment as COMPLETED.
func (a *BillingAdapter) Complete(ctx context.Context, number string) error {
	current, err := a.shipments.CurrentShipment(ctx)
	if err != nil {
		return err
	}
	if err := a.billings.CompleteBilling(ctx, current.ID, number); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Billing %s completed\n", okMark, number)
	return nil
}

// Activate makes a billing of the current shipment the active one.
func (a *BillingAdapter) Activate(ctx context.Context, number string) error {
	current, err := a.shipments.CurrentShipment(ctx)
	if err != nil {
		return err
	}
	if err := a.billings.ActivateBilling(ctx, current.ID, number); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Active billing: %s/%s\n", okMark, current.ID, number)
	return nil
}

// Remove deletes a billing of the current shipment with its items.
func (a *BillingAdapter) Remove(ctx context.Context, number string, assumeYes bool) error {
	current, err := a.shipments.CurrentShipment(ctx)
	if err != nil {
		return err
	}
	if !assumeYes && (a.prompt == nil || !a.prompt.Confirm(fmt.Sprintf("Remove billing %s and its items?", number))) {
		fmt.Fprintln(a.out, "Cancelled. Nothing was changed.")
		return nil
	}
	if err := a.billings.RemoveBilling(ctx, current.ID, number); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Billing %s removed\n", okMark, number)
	return nil
}

// AddItem scans an item code into the active billing.
func (a *BillingAdapter) AddItem(ctx context.Context, code string) error {
	resp, err := a.items.ScanItem(ctx, code)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %s → %s/%s (%d item(s))\n", okMark, resp.Item.ID, resp.ShipmentID, resp.BillingID, resp.ItemCount)
	return nil
}

// RemoveItem removes an item from a billing of the current shipment.
func (a *BillingAdapter) RemoveItem(ctx context.Context, billingID, itemID string) error {
	current, err := a.shipments.CurrentShipment(ctx)
	if err != nil {
		return err
	}
	err = a.items.RemoveItem(ctx, primary.RemoveItemRequest{
		ShipmentID: current.ID,
		BillingID:  billingID,
		ItemID:     itemID,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Item %s removed from billing %s\n", okMark, itemID, billingID)
	return nil
}

// TraceItem shows every billing an item code was scanned into.
func (a *BillingAdapter) TraceItem(ctx context.Context, code string) error {
	traces, err := a.items.TraceItem(ctx, code)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\n%-16s %-12s %-12s %-10s %s\n", "SHIPMENT", "STATUS", "BILLING", "SCANNED BY", "AT")
	fmt.Fprintln(a.out, rule)
	for _, t := range traces {
		fmt.Fprintf(a.out, "%-16s %-12s %-12s %-10s %s\n", t.ShipmentID, colorStatus(t.ShipmentStatus), t.BillingID, orDash(t.Item.Creator), t.Item.CreatedAt)
	}
	fmt.Fprintln(a.out)
	return nil
}
