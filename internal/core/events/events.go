// Package events defines the domain events emitted by the tracking reducer.
// Events are pure data describing a committed change; subscribers such as
// the audit log decide what to do with them.
package events

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns a string identifier for the event type.
	EventType() string
}

// Entity types carried by events.
const (
	EntityShipment = "shipment"
	EntityBilling  = "billing"
	EntityItem     = "item"
)

// ShipmentAdded is emitted when a new shipment record enters the store.
type ShipmentAdded struct {
	ShipmentID string
	Status     string
}

func (e ShipmentAdded) EventType() string { return "shipment_added" }

// ShipmentStatusChanged is emitted when a shipment's status is overwritten.
type ShipmentStatusChanged struct {
	ShipmentID string
	From       string
	To         string
}

func (e ShipmentStatusChanged) EventType() string { return "shipment_status_changed" }

// ShipmentRemoved is emitted when a shipment and its tree are deleted.
type ShipmentRemoved struct {
	ShipmentID   string
	BillingCount int
}

func (e ShipmentRemoved) EventType() string { return "shipment_removed" }

// BillingAdded is emitted when a billing is appended to a shipment.
type BillingAdded struct {
	ShipmentID string
	BillingID  string
}

func (e BillingAdded) EventType() string { return "billing_added" }

// BillingStatusChanged is emitted when a billing is completed or reopened.
type BillingStatusChanged struct {
	ShipmentID string
	BillingID  string
	From       string
	To         string
}

func (e BillingStatusChanged) EventType() string { return "billing_status_changed" }

// BillingRemoved is emitted when a billing and its items are deleted.
type BillingRemoved struct {
	ShipmentID string
	BillingID  string
	ItemCount  int
}

func (e BillingRemoved) EventType() string { return "billing_removed" }

// ItemAdded is emitted when an item is scanned into a billing.
type ItemAdded struct {
	ShipmentID string
	BillingID  string
	ItemID     string
}

func (e ItemAdded) EventType() string { return "item_added" }

// ItemRemoved is emitted when an item is removed from a billing.
type ItemRemoved struct {
	ShipmentID string
	BillingID  string
	ItemID     string
}

func (e ItemRemoved) EventType() string { return "item_removed" }

// ActiveBillingChanged is emitted when the global active billing pointer
// moves. Empty ShipmentID/BillingID mean the pointer was cleared; the
// Previous fields name the billing that was active before, if any.
type ActiveBillingChanged struct {
	ShipmentID         string
	BillingID          string
	PreviousShipmentID string
	PreviousBillingID  string
}

func (e ActiveBillingChanged) EventType() string { return "active_billing_changed" }

// Cleared reports whether the pointer was cleared rather than moved.
func (e ActiveBillingChanged) Cleared() bool { return e.BillingID == "" }
