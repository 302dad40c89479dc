package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/shiptrack/internal/ports/primary"
)

// ShipmentAdapter is a thin adapter that translates CLI operations to ShipmentService calls.
type ShipmentAdapter struct {
	service primary.ShipmentService
	prompt  *Prompter
	out     io.Writer
}

// NewShipmentAdapter creates a new ShipmentAdapter with the given service.
func NewShipmentAdapter(service primary.ShipmentService, prompt *Prompter, out io.Writer) *ShipmentAdapter {
	return &ShipmentAdapter{
		service: service,
		prompt:  prompt,
		out:     out,
	}
}

// Resolve looks up a scanned code and, once confirmed, opens the shipment.
// With assumeYes the confirmation prompt is skipped.
func (a *ShipmentAdapter) Resolve(ctx context.Context, req primary.ConfirmShipmentRequest, assumeYes bool) error {
	resolution, err := a.service.ResolveShipment(ctx, req.Code)
	if err != nil {
		return err
	}

	var question string
	switch resolution.Kind {
	case primary.ResolutionNew:
		fmt.Fprintf(a.out, "Shipment %s is new.\n", resolution.Shipment.ID)
		question = "Create shipment " + resolution.Shipment.ID + "?"
	default:
		fmt.Fprintf(a.out, "Shipment %s exists (%s, %d billing(s), %d item(s)).\n",
			resolution.Shipment.ID, colorStatus(resolution.Shipment.Status),
			len(resolution.Shipment.Billings), resolution.Shipment.ItemCount())
		question = "Continue shipment " + resolution.Shipment.ID + "?"
	}

	if !assumeYes && (a.prompt == nil || !a.prompt.Confirm(question)) {
		fmt.Fprintln(a.out, "Cancelled. Nothing was changed.")
		return nil
	}

	shipment, err := a.service.ConfirmShipment(ctx, req)
	if err != nil {
		return err
	}

	verb := "Opened"
	if resolution.Kind == primary.ResolutionNew {
		verb = "Created"
	}
	fmt.Fprintf(a.out, "%s %s shipment %s\n", okMark, verb, shipment.ID)
	fmt.Fprintf(a.out, "  Link: %s\n", a.service.ShipmentLink(shipment.ID))
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "Next steps:")
	fmt.Fprintln(a.out, "   shiptrack billing add <10-character billing number>")
	return nil
}

// Show displays a shipment with its billings. An empty code shows the
// current shipment.
func (a *ShipmentAdapter) Show(ctx context.Context, code string) (*primary.Shipment, error) {
	var shipment *primary.Shipment
	var err error
	if code == "" {
		shipment, err = a.service.CurrentShipment(ctx)
	} else {
		shipment, err = a.service.GetShipment(ctx, code)
	}
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "\nShipment: %s", shipment.ID)
	if shipment.Staged {
		fmt.Fprint(a.out, " (not confirmed)")
	}
	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "Status:   %s\n", colorStatus(shipment.Status))
	if shipment.Name != "" {
		fmt.Fprintf(a.out, "Name:     %s\n", shipment.Name)
	}
	if shipment.TrackingNumber != "" {
		fmt.Fprintf(a.out, "Tracking: %s\n", shipment.TrackingNumber)
	}
	if shipment.Origin != "" || shipment.Destination != "" {
		fmt.Fprintf(a.out, "Route:    %s → %s\n", orDash(shipment.Origin), orDash(shipment.Destination))
	}
	fmt.Fprintf(a.out, "Creator:  %s\n", orDash(shipment.Creator))
	fmt.Fprintf(a.out, "Created:  %s\n", shipment.CreatedAt)

	if len(shipment.Billings) == 0 {
		fmt.Fprintln(a.out, "\nNo billings yet")
	} else {
		fmt.Fprintf(a.out, "\n%-12s %-10s %s\n", "BILLING", "STATUS", "ITEMS")
		fmt.Fprintln(a.out, rule)
		for _, b := range shipment.Billings {
			fmt.Fprintf(a.out, "%-12s %-10s %d%s\n", b.ID, colorStatus(b.Status), len(b.Items), activeMarker(b.Active))
		}
	}
	fmt.Fprintln(a.out)

	return shipment, nil
}

// List lists shipments with optional filters.
func (a *ShipmentAdapter) List(ctx context.Context, filters primary.ShipmentFilters) error {
	shipments, err := a.service.ListShipments(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to list shipments: %w", err)
	}

	if len(shipments) == 0 {
		fmt.Fprintln(a.out, "No shipments found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-16s %-12s %-9s %-6s %s\n", "ID", "STATUS", "BILLINGS", "ITEMS", "CREATOR")
	fmt.Fprintln(a.out, rule)
	for _, s := range shipments {
		marker := ""
		if s.Current {
			marker = " *"
		}
		fmt.Fprintf(a.out, "%-16s %-12s %-9d %-6d %s%s\n", s.ID, colorStatus(s.Status), len(s.Billings), s.ItemCount(), orDash(s.Creator), marker)
	}
	fmt.Fprintln(a.out)

	return nil
}

// Create promotes the shipment to IN_PROGRESS.
func (a *ShipmentAdapter) Create(ctx context.Context, code string) error {
	if err := a.service.CreateShipment(ctx, code); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Shipment %s created\n", okMark, a.label(ctx, code))
	return nil
}

// Complete marks the shipment as COMPLETED.
func (a *ShipmentAdapter) Complete(ctx context.Context, code string) error {
	if err := a.service.CompleteShipment(ctx, code); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Shipment %s marked as complete\n", okMark, a.label(ctx, code))
	return nil
}

// Cancel cancels the shipment.
func (a *ShipmentAdapter) Cancel(ctx context.Context, code string) error {
	if err := a.service.CancelShipment(ctx, code); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Shipment %s cancelled\n", okMark, a.label(ctx, code))
	return nil
}

// Clear closes the current shipment context.
func (a *ShipmentAdapter) Clear(ctx context.Context) error {
	if err := a.service.ClearShipment(ctx); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Current shipment cleared\n", okMark)
	return nil
}

// Delete removes a shipment and everything it owns.
func (a *ShipmentAdapter) Delete(ctx context.Context, code string, assumeYes bool) error {
	if !assumeYes && (a.prompt == nil || !a.prompt.Confirm("Delete shipment "+code+" and all its billings?")) {
		fmt.Fprintln(a.out, "Cancelled. Nothing was changed.")
		return nil
	}
	if err := a.service.DeleteShipment(ctx, code); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Shipment %s deleted\n", okMark, code)
	return nil
}

// Link prints the routing link of a shipment. An empty code links the
// current shipment.
func (a *ShipmentAdapter) Link(ctx context.Context, code string) error {
	if code == "" {
		current, err := a.service.CurrentShipment(ctx)
		if err != nil {
			return err
		}
		code = current.ID
	}
	fmt.Fprintln(a.out, a.service.ShipmentLink(code))
	return nil
}

// label names the shipment an operation applied to, falling back to the
// current shipment when code was empty.
func (a *ShipmentAdapter) label(ctx context.Context, code string) string {
	if code != "" {
		return code
	}
	if current, err := a.service.CurrentShipment(ctx); err == nil {
		return current.ID
	}
	return "(current)"
}
