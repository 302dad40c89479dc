package primary

import "context"

// ItemService defines the primary port for item scanning.
type ItemService interface {
	// ScanItem adds a scanned code to the active billing.
	ScanItem(ctx context.Context, code string) (*ScanItemResponse, error)

	// RemoveItem removes an item from a billing.
	RemoveItem(ctx context.Context, req RemoveItemRequest) error

	// TraceItem finds every billing an item code was scanned into.
	TraceItem(ctx context.Context, code string) ([]*ItemTrace, error)
}

// Item represents a scanned item at the port boundary.
type Item struct {
	ID        string
	Creator   string
	CreatedAt string
}

// ScanItemResponse contains the result of scanning an item.
type ScanItemResponse struct {
	ShipmentID string
	BillingID  string
	Item       *Item
	ItemCount  int // items in the billing after the scan
}

// RemoveItemRequest identifies an item to remove.
type RemoveItemRequest struct {
	ShipmentID string
	BillingID  string
	ItemID     string
}

// ItemTrace is one location an item code was found at.
type ItemTrace struct {
	ShipmentID     string
	ShipmentStatus string
	BillingID      string
	Item           *Item
}
