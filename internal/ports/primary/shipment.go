package primary

import "context"

// ShipmentService defines the primary port for shipment operations.
type ShipmentService interface {
	// ResolveShipment looks up a scanned or entered code. An unknown code is
	// staged as a new PENDING shipment until ConfirmShipment is called.
	ResolveShipment(ctx context.Context, code string) (*ShipmentResolution, error)

	// ConfirmShipment commits a resolution and makes the shipment current.
	ConfirmShipment(ctx context.Context, req ConfirmShipmentRequest) (*Shipment, error)

	// CurrentShipment returns the shipment the operator is working on.
	CurrentShipment(ctx context.Context) (*Shipment, error)

	// GetShipment retrieves a shipment by code.
	GetShipment(ctx context.Context, code string) (*Shipment, error)

	// ListShipments lists shipments with optional filters.
	ListShipments(ctx context.Context, filters ShipmentFilters) ([]*Shipment, error)

	// CreateShipment promotes a PENDING shipment to IN_PROGRESS.
	CreateShipment(ctx context.Context, code string) error

	// CompleteShipment marks an IN_PROGRESS shipment as COMPLETED.
	CompleteShipment(ctx context.Context, code string) error

	// CancelShipment cancels a PENDING or IN_PROGRESS shipment.
	CancelShipment(ctx context.Context, code string) error

	// ClearShipment discards the current PENDING shipment and clears the
	// current shipment context.
	ClearShipment(ctx context.Context) error

	// DeleteShipment removes a shipment and everything it owns.
	DeleteShipment(ctx context.Context, code string) error

	// ShipmentLink returns the routing link for a shipment code.
	ShipmentLink(code string) string
}

// Resolution kinds returned by ResolveShipment and ResolveBilling.
const (
	ResolutionNew      = "new"
	ResolutionContinue = "continue"
	ResolutionReopen   = "reopen"
)

// ShipmentResolution is the outcome of resolving a shipment code.
type ShipmentResolution struct {
	Kind     string // new or continue
	Shipment *Shipment
}

// ConfirmShipmentRequest contains parameters for confirming a resolution.
// Detail fields are optional and only applied to new shipments.
type ConfirmShipmentRequest struct {
	Code           string
	Name           string
	TrackingNumber string
	Origin         string
	Destination    string
}

// Shipment represents a shipment at the port boundary.
// Status lifecycle: PENDING → IN_PROGRESS → COMPLETED, or CANCELLED.
type Shipment struct {
	ID             string
	Name           string
	TrackingNumber string
	Origin         string
	Destination    string
	Creator        string
	CreatedAt      string
	Status         string
	Billings       []*Billing
	Staged         bool // not yet confirmed
	Current        bool
}

// ItemCount returns the number of items across all billings.
func (s *Shipment) ItemCount() int {
	n := 0
	for _, b := range s.Billings {
		n += len(b.Items)
	}
	return n
}

// ShipmentFilters contains filter options for querying shipments.
type ShipmentFilters struct {
	Status  string
	Creator string
}
