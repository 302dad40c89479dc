package primary

import "context"

// BillingService defines the primary port for billing operations.
// Every operation is scoped to one shipment.
type BillingService interface {
	// ResolveBilling validates a billing number and reports whether it is
	// new, continues a scanning billing or reopens a completed one.
	ResolveBilling(ctx context.Context, shipmentID, number string) (*BillingResolution, error)

	// ConfirmBilling applies a resolution and makes the billing active.
	ConfirmBilling(ctx context.Context, shipmentID, number string) (*BillingResolution, error)

	// ActivateBilling makes an existing billing the active one.
	ActivateBilling(ctx context.Context, shipmentID, number string) error

	// CompleteBilling marks a scanning billing as COMPLETED.
	CompleteBilling(ctx context.Context, shipmentID, number string) error

	// RemoveBilling deletes a billing and its items.
	RemoveBilling(ctx context.Context, shipmentID, number string) error

	// ListBillings lists the billings of a shipment in scan order.
	ListBillings(ctx context.Context, shipmentID string) ([]*Billing, error)

	// ActiveBilling returns the globally active billing, or nil if none.
	ActiveBilling(ctx context.Context) (*ActiveBillingRef, error)
}

// BillingResolution is the outcome of resolving a billing number.
type BillingResolution struct {
	Kind       string // new, continue or reopen
	ShipmentID string
	Billing    *Billing
}

// Billing represents a billing at the port boundary.
type Billing struct {
	ID        string
	Status    string
	Creator   string
	CreatedAt string
	Items     []*Item
	Active    bool
}

// ActiveBillingRef identifies the active billing.
type ActiveBillingRef struct {
	ShipmentID string
	BillingID  string
}
