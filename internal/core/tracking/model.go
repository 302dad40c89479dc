// Package tracking contains the shipment → billing → item aggregate and the
// pure reducer that evolves it. Every operation takes a State and returns a
// new State; nested slices are copied, never edited in place, so a snapshot
// handed to a reader never changes underneath it.
package tracking

// ShipmentStatus is the lifecycle status of a shipment.
type ShipmentStatus string

const (
	ShipmentPending    ShipmentStatus = "PENDING"
	ShipmentInProgress ShipmentStatus = "IN_PROGRESS"
	ShipmentCompleted  ShipmentStatus = "COMPLETED"
	ShipmentCancelled  ShipmentStatus = "CANCELLED"
)

// Valid reports whether s is a known shipment status.
func (s ShipmentStatus) Valid() bool {
	switch s {
	case ShipmentPending, ShipmentInProgress, ShipmentCompleted, ShipmentCancelled:
		return true
	}
	return false
}

// BillingStatus is the scanning status of a billing.
type BillingStatus string

const (
	BillingScanning  BillingStatus = "SCANNING"
	BillingCompleted BillingStatus = "COMPLETED"
)

// BillingNumberLength is the exact length of a billing id.
const BillingNumberLength = 10

// Item is a single scanned unit inside a billing.
type Item struct {
	ID        string `json:"id"`
	Creator   string `json:"creator"`
	CreatedAt string `json:"createdAt"`
}

// Billing is a 10-character-identified group of items within a shipment.
type Billing struct {
	ID        string        `json:"id"`
	Status    BillingStatus `json:"status"`
	Items     []Item        `json:"items"`
	Creator   string        `json:"creator"`
	CreatedAt string        `json:"createdAt"`
}

// HasItem reports whether an item with the given id is in the billing.
func (b Billing) HasItem(itemID string) bool {
	for _, it := range b.Items {
		if it.ID == itemID {
			return true
		}
	}
	return false
}

// Shipment is the top-level unit of work, keyed by its scanned code.
type Shipment struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	TrackingNumber string         `json:"trackingNumber"`
	Origin         string         `json:"origin"`
	Destination    string         `json:"destination"`
	Creator        string         `json:"creator"`
	CreatedAt      string         `json:"createdAt"`
	Status         ShipmentStatus `json:"status"`
	Billings       []Billing      `json:"billings"`
}

// Billing returns the billing with the given id, if present.
func (s Shipment) Billing(billingID string) (Billing, bool) {
	for _, b := range s.Billings {
		if b.ID == billingID {
			return b, true
		}
	}
	return Billing{}, false
}

// ItemCount returns the number of items across all billings.
func (s Shipment) ItemCount() int {
	n := 0
	for _, b := range s.Billings {
		n += len(b.Items)
	}
	return n
}

// BillingRef points at one billing. Billing ids are only unique within a
// shipment, so the pointer carries both halves.
type BillingRef struct {
	ShipmentID string `json:"shipmentId"`
	BillingID  string `json:"billingId"`
}

// State is an immutable snapshot of every shipment plus the active billing.
type State struct {
	Shipments     []Shipment  `json:"shipments"`
	ActiveBilling *BillingRef `json:"activeBilling"`
}

// Shipment returns the shipment with the given id, if present.
func (s State) Shipment(id string) (Shipment, bool) {
	for _, sh := range s.Shipments {
		if sh.ID == id {
			return sh, true
		}
	}
	return Shipment{}, false
}

// IsActive reports whether ref is the current active billing.
func (s State) IsActive(shipmentID, billingID string) bool {
	return s.ActiveBilling != nil &&
		s.ActiveBilling.ShipmentID == shipmentID &&
		s.ActiveBilling.BillingID == billingID
}

// CanCreateShipment reports whether a shipment may be promoted out of
// PENDING: at least one billing, and every billing holds at least one item.
func CanCreateShipment(s Shipment) bool {
	if len(s.Billings) == 0 {
		return false
	}
	for _, b := range s.Billings {
		if len(b.Items) == 0 {
			return false
		}
	}
	return true
}

// ItemLocation identifies where a traced item lives.
type ItemLocation struct {
	ShipmentID     string
	ShipmentStatus ShipmentStatus
	BillingID      string
	Item           Item
}

// FindItem searches every shipment and billing for itemID. The same code may
// legitimately appear in several billings (reused lot codes), so all matches
// are returned in store order; the first one is the canonical answer.
func FindItem(s State, itemID string) []ItemLocation {
	var found []ItemLocation
	for _, sh := range s.Shipments {
		for _, b := range sh.Billings {
			for _, it := range b.Items {
				if it.ID == itemID {
					found = append(found, ItemLocation{
						ShipmentID:     sh.ID,
						ShipmentStatus: sh.Status,
						BillingID:      b.ID,
						Item:           it,
					})
				}
			}
		}
	}
	return found
}
