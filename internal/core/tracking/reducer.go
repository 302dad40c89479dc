package tracking

import (
	"fmt"

	coreerrors "github.com/example/shiptrack/internal/core/errors"
	"github.com/example/shiptrack/internal/core/events"
)

// Action is a state transition request. The set of actions is closed; each
// one is applied by Reduce.
type Action interface {
	// ActionType returns a string identifier for the action.
	ActionType() string

	apply(s State) (State, []events.Event, error)
}

// Reduce applies a to s and returns the next state and the events describing
// what changed. On error the returned state is s, unchanged.
func Reduce(s State, a Action) (State, []events.Event, error) {
	next, evs, err := a.apply(s)
	if err != nil {
		return s, nil, err
	}
	return next, evs, nil
}

// AddShipment appends a shipment. Adding an id that is already present is a
// no-op (idempotent create).
type AddShipment struct {
	Shipment Shipment
}

func (a AddShipment) ActionType() string { return "add_shipment" }

func (a AddShipment) apply(s State) (State, []events.Event, error) {
	if a.Shipment.ID == "" {
		return s, nil, coreerrors.ErrEmptyCode
	}
	if indexOfShipment(s.Shipments, a.Shipment.ID) >= 0 {
		return s, nil, nil
	}
	shipments := make([]Shipment, len(s.Shipments), len(s.Shipments)+1)
	copy(shipments, s.Shipments)
	s.Shipments = append(shipments, cloneShipment(a.Shipment))
	return s, []events.Event{events.ShipmentAdded{
		ShipmentID: a.Shipment.ID,
		Status:     string(a.Shipment.Status),
	}}, nil
}

// UpdateShipmentStatus overwrites the status field of a shipment. Unknown ids
// are a no-op.
type UpdateShipmentStatus struct {
	ShipmentID string
	Status     ShipmentStatus
}

func (a UpdateShipmentStatus) ActionType() string { return "update_shipment_status" }

func (a UpdateShipmentStatus) apply(s State) (State, []events.Event, error) {
	if !a.Status.Valid() {
		return s, nil, fmt.Errorf("%w: unknown shipment status %q", coreerrors.ErrInvalidTransition, a.Status)
	}
	i := indexOfShipment(s.Shipments, a.ShipmentID)
	if i < 0 {
		return s, nil, nil
	}
	sh := s.Shipments[i]
	if sh.Status == a.Status {
		return s, nil, nil
	}
	from := sh.Status
	sh.Status = a.Status
	s.Shipments = replaceShipment(s.Shipments, i, sh)
	return s, []events.Event{events.ShipmentStatusChanged{
		ShipmentID: a.ShipmentID,
		From:       string(from),
		To:         string(a.Status),
	}}, nil
}

// AddBilling appends a billing to a shipment. A billing id may appear only
// once per shipment.
type AddBilling struct {
	ShipmentID string
	Billing    Billing
}

func (a AddBilling) ActionType() string { return "add_billing" }

func (a AddBilling) apply(s State) (State, []events.Event, error) {
	i := indexOfShipment(s.Shipments, a.ShipmentID)
	if i < 0 {
		return s, nil, fmt.Errorf("%w: %s", coreerrors.ErrShipmentNotFound, a.ShipmentID)
	}
	sh := s.Shipments[i]
	if indexOfBilling(sh.Billings, a.Billing.ID) >= 0 {
		return s, nil, fmt.Errorf("%w: %s in shipment %s", coreerrors.ErrDuplicateBilling, a.Billing.ID, a.ShipmentID)
	}
	b := a.Billing
	b.Items = cloneItems(b.Items)
	sh.Billings = append(cloneBillings(sh.Billings), b)
	s.Shipments = replaceShipment(s.Shipments, i, sh)
	return s, []events.Event{events.BillingAdded{
		ShipmentID: a.ShipmentID,
		BillingID:  a.Billing.ID,
	}}, nil
}

// SetActiveBilling replaces the global active billing pointer. A nil Ref
// clears it.
type SetActiveBilling struct {
	Ref *BillingRef
}

func (a SetActiveBilling) ActionType() string { return "set_active_billing" }

func (a SetActiveBilling) apply(s State) (State, []events.Event, error) {
	if a.Ref == nil {
		if s.ActiveBilling == nil {
			return s, nil, nil
		}
		prev := *s.ActiveBilling
		s.ActiveBilling = nil
		return s, []events.Event{clearedActive(prev)}, nil
	}
	sh, ok := s.Shipment(a.Ref.ShipmentID)
	if !ok {
		return s, nil, fmt.Errorf("%w: %s", coreerrors.ErrShipmentNotFound, a.Ref.ShipmentID)
	}
	if _, ok := sh.Billing(a.Ref.BillingID); !ok {
		return s, nil, fmt.Errorf("%w: %s in shipment %s", coreerrors.ErrBillingNotFound, a.Ref.BillingID, a.Ref.ShipmentID)
	}
	if s.IsActive(a.Ref.ShipmentID, a.Ref.BillingID) {
		return s, nil, nil
	}
	ev := events.ActiveBillingChanged{
		ShipmentID: a.Ref.ShipmentID,
		BillingID:  a.Ref.BillingID,
	}
	if s.ActiveBilling != nil {
		ev.PreviousShipmentID = s.ActiveBilling.ShipmentID
		ev.PreviousBillingID = s.ActiveBilling.BillingID
	}
	ref := *a.Ref
	s.ActiveBilling = &ref
	return s, []events.Event{ev}, nil
}

// UpdateBillingStatus overwrites the status of one billing within one
// shipment. Unknown ids are a no-op.
type UpdateBillingStatus struct {
	ShipmentID string
	BillingID  string
	Status     BillingStatus
}

func (a UpdateBillingStatus) ActionType() string { return "update_billing_status" }

func (a UpdateBillingStatus) apply(s State) (State, []events.Event, error) {
	i := indexOfShipment(s.Shipments, a.ShipmentID)
	if i < 0 {
		return s, nil, nil
	}
	sh := s.Shipments[i]
	j := indexOfBilling(sh.Billings, a.BillingID)
	if j < 0 {
		return s, nil, nil
	}
	b := sh.Billings[j]
	if b.Status == a.Status {
		return s, nil, nil
	}
	from := b.Status
	b.Status = a.Status
	sh.Billings = replaceBilling(sh.Billings, j, b)
	s.Shipments = replaceShipment(s.Shipments, i, sh)
	return s, []events.Event{events.BillingStatusChanged{
		ShipmentID: a.ShipmentID,
		BillingID:  a.BillingID,
		From:       string(from),
		To:         string(a.Status),
	}}, nil
}

// AddItemToBilling appends an item to a billing. Item ids are unique within
// a billing; a duplicate is refused and the state is left unchanged.
type AddItemToBilling struct {
	ShipmentID string
	BillingID  string
	Item       Item
}

func (a AddItemToBilling) ActionType() string { return "add_item" }

func (a AddItemToBilling) apply(s State) (State, []events.Event, error) {
	if a.Item.ID == "" {
		return s, nil, coreerrors.ErrEmptyCode
	}
	i := indexOfShipment(s.Shipments, a.ShipmentID)
	if i < 0 {
		return s, nil, fmt.Errorf("%w: %s", coreerrors.ErrShipmentNotFound, a.ShipmentID)
	}
	sh := s.Shipments[i]
	j := indexOfBilling(sh.Billings, a.BillingID)
	if j < 0 {
		return s, nil, fmt.Errorf("%w: %s in shipment %s", coreerrors.ErrBillingNotFound, a.BillingID, a.ShipmentID)
	}
	b := sh.Billings[j]
	if b.HasItem(a.Item.ID) {
		return s, nil, fmt.Errorf("%w: %s in billing %s", coreerrors.ErrDuplicateItem, a.Item.ID, a.BillingID)
	}
	b.Items = append(cloneItems(b.Items), a.Item)
	sh.Billings = replaceBilling(sh.Billings, j, b)
	s.Shipments = replaceShipment(s.Shipments, i, sh)
	return s, []events.Event{events.ItemAdded{
		ShipmentID: a.ShipmentID,
		BillingID:  a.BillingID,
		ItemID:     a.Item.ID,
	}}, nil
}

// RemoveItemFromBilling removes an item by id. Unknown ids are a no-op.
type RemoveItemFromBilling struct {
	ShipmentID string
	BillingID  string
	ItemID     string
}

func (a RemoveItemFromBilling) ActionType() string { return "remove_item" }

func (a RemoveItemFromBilling) apply(s State) (State, []events.Event, error) {
	i := indexOfShipment(s.Shipments, a.ShipmentID)
	if i < 0 {
		return s, nil, nil
	}
	sh := s.Shipments[i]
	j := indexOfBilling(sh.Billings, a.BillingID)
	if j < 0 {
		return s, nil, nil
	}
	b := sh.Billings[j]
	if !b.HasItem(a.ItemID) {
		return s, nil, nil
	}
	items := make([]Item, 0, len(b.Items)-1)
	for _, it := range b.Items {
		if it.ID != a.ItemID {
			items = append(items, it)
		}
	}
	b.Items = items
	sh.Billings = replaceBilling(sh.Billings, j, b)
	s.Shipments = replaceShipment(s.Shipments, i, sh)
	return s, []events.Event{events.ItemRemoved{
		ShipmentID: a.ShipmentID,
		BillingID:  a.BillingID,
		ItemID:     a.ItemID,
	}}, nil
}

// RemoveBilling deletes a billing with all its items. If it was the active
// billing, the pointer is cleared in the same transition.
type RemoveBilling struct {
	ShipmentID string
	BillingID  string
}

func (a RemoveBilling) ActionType() string { return "remove_billing" }

func (a RemoveBilling) apply(s State) (State, []events.Event, error) {
	i := indexOfShipment(s.Shipments, a.ShipmentID)
	if i < 0 {
		return s, nil, nil
	}
	sh := s.Shipments[i]
	j := indexOfBilling(sh.Billings, a.BillingID)
	if j < 0 {
		return s, nil, nil
	}
	removed := sh.Billings[j]
	billings := make([]Billing, 0, len(sh.Billings)-1)
	billings = append(billings, sh.Billings[:j]...)
	billings = append(billings, sh.Billings[j+1:]...)
	sh.Billings = billings
	s.Shipments = replaceShipment(s.Shipments, i, sh)

	evs := []events.Event{events.BillingRemoved{
		ShipmentID: a.ShipmentID,
		BillingID:  a.BillingID,
		ItemCount:  len(removed.Items),
	}}
	if s.IsActive(a.ShipmentID, a.BillingID) {
		prev := *s.ActiveBilling
		s.ActiveBilling = nil
		evs = append(evs, clearedActive(prev))
	}
	return s, evs, nil
}

// RemoveShipment deletes a shipment with its whole billing/item tree. If it
// owned the active billing, the pointer is cleared too.
type RemoveShipment struct {
	ShipmentID string
}

func (a RemoveShipment) ActionType() string { return "remove_shipment" }

func (a RemoveShipment) apply(s State) (State, []events.Event, error) {
	i := indexOfShipment(s.Shipments, a.ShipmentID)
	if i < 0 {
		return s, nil, nil
	}
	removed := s.Shipments[i]
	shipments := make([]Shipment, 0, len(s.Shipments)-1)
	shipments = append(shipments, s.Shipments[:i]...)
	shipments = append(shipments, s.Shipments[i+1:]...)
	s.Shipments = shipments

	evs := []events.Event{events.ShipmentRemoved{
		ShipmentID:   a.ShipmentID,
		BillingCount: len(removed.Billings),
	}}
	if s.ActiveBilling != nil && s.ActiveBilling.ShipmentID == a.ShipmentID {
		prev := *s.ActiveBilling
		s.ActiveBilling = nil
		evs = append(evs, clearedActive(prev))
	}
	return s, evs, nil
}

// Helpers

func clearedActive(prev BillingRef) events.ActiveBillingChanged {
	return events.ActiveBillingChanged{
		PreviousShipmentID: prev.ShipmentID,
		PreviousBillingID:  prev.BillingID,
	}
}

func indexOfShipment(list []Shipment, id string) int {
	for i, sh := range list {
		if sh.ID == id {
			return i
		}
	}
	return -1
}

func indexOfBilling(list []Billing, id string) int {
	for i, b := range list {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func replaceShipment(list []Shipment, i int, sh Shipment) []Shipment {
	out := make([]Shipment, len(list))
	copy(out, list)
	out[i] = sh
	return out
}

func replaceBilling(list []Billing, i int, b Billing) []Billing {
	out := make([]Billing, len(list))
	copy(out, list)
	out[i] = b
	return out
}

func cloneShipment(sh Shipment) Shipment {
	sh.Billings = cloneBillings(sh.Billings)
	return sh
}

func cloneBillings(list []Billing) []Billing {
	if list == nil {
		return nil
	}
	out := make([]Billing, len(list))
	for i, b := range list {
		b.Items = cloneItems(b.Items)
		out[i] = b
	}
	return out
}

func cloneItems(list []Item) []Item {
	if list == nil {
		return nil
	}
	out := make([]Item, len(list))
	copy(out, list)
	return out
}
