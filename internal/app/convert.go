package app

import (
	"github.com/example/shiptrack/internal/core/tracking"
	"github.com/example/shiptrack/internal/ports/primary"
)

func toPrimaryShipment(sh tracking.Shipment, state tracking.State) *primary.Shipment {
	billings := make([]*primary.Billing, len(sh.Billings))
	for i, b := range sh.Billings {
		billings[i] = toPrimaryBilling(b, state.IsActive(sh.ID, b.ID))
	}
	return &primary.Shipment{
		ID:             sh.ID,
		Name:           sh.Name,
		TrackingNumber: sh.TrackingNumber,
		Origin:         sh.Origin,
		Destination:    sh.Destination,
		Creator:        sh.Creator,
		CreatedAt:      sh.CreatedAt,
		Status:         string(sh.Status),
		Billings:       billings,
	}
}

func toPrimaryBilling(b tracking.Billing, active bool) *primary.Billing {
	items := make([]*primary.Item, len(b.Items))
	for i, it := range b.Items {
		items[i] = toPrimaryItem(it)
	}
	return &primary.Billing{
		ID:        b.ID,
		Status:    string(b.Status),
		Creator:   b.Creator,
		CreatedAt: b.CreatedAt,
		Items:     items,
		Active:    active,
	}
}

func toPrimaryItem(it tracking.Item) *primary.Item {
	return &primary.Item{
		ID:        it.ID,
		Creator:   it.Creator,
		CreatedAt: it.CreatedAt,
	}
}
