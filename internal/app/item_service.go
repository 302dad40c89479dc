package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	corebilling "github.com/example/shiptrack/internal/core/billing"
	coreerrors "github.com/example/shiptrack/internal/core/errors"
	"github.com/example/shiptrack/internal/core/tracking"
	"github.com/example/shiptrack/internal/ctxutil"
	"github.com/example/shiptrack/internal/ports/primary"
)

// ItemServiceImpl implements the ItemService interface.
type ItemServiceImpl struct {
	store  *TrackingStore
	logger *zap.Logger
	now    func() time.Time
}

// NewItemService creates a new ItemService with injected dependencies.
func NewItemService(store *TrackingStore, logger *zap.Logger) *ItemServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ItemServiceImpl{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// ScanItem adds a scanned code to the active billing.
func (s *ItemServiceImpl) ScanItem(ctx context.Context, code string) (*primary.ScanItemResponse, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, coreerrors.ErrEmptyCode
	}

	var ref tracking.BillingRef
	_, err := s.store.Update(ctx, func(state tracking.State) ([]tracking.Action, error) {
		if state.ActiveBilling == nil {
			return nil, coreerrors.ErrNoActiveBilling
		}
		ref = *state.ActiveBilling

		b, err := editableBilling(state, ref.ShipmentID, ref.BillingID)
		if err != nil {
			return nil, err
		}

		existing := make([]string, len(b.Items))
		for i, it := range b.Items {
			existing[i] = it.ID
		}
		result := corebilling.CanAddItem(corebilling.AddItemContext{
			ItemID:          code,
			BillingID:       b.ID,
			BillingStatus:   b.Status,
			ExistingItemIDs: existing,
		})
		if !result.Allowed {
			return nil, result.Error()
		}

		return []tracking.Action{tracking.AddItemToBilling{
			ShipmentID: ref.ShipmentID,
			BillingID:  ref.BillingID,
			Item: tracking.Item{
				ID:        code,
				Creator:   ctxutil.ActorFromContext(ctx),
				CreatedAt: s.now().UTC().Format(time.RFC3339),
			},
		}}, nil
	})
	if err != nil {
		s.logger.Warn("item scan refused", zap.String("item", code), zap.Error(err))
		return nil, err
	}

	state := s.store.Snapshot()
	sh, _ := state.Shipment(ref.ShipmentID)
	b, _ := sh.Billing(ref.BillingID)
	s.logger.Info("item scanned",
		zap.String("shipment", ref.ShipmentID),
		zap.String("billing", ref.BillingID),
		zap.String("item", code),
		zap.Int("count", len(b.Items)))

	return &primary.ScanItemResponse{
		ShipmentID: ref.ShipmentID,
		BillingID:  ref.BillingID,
		Item:       toPrimaryItem(b.Items[len(b.Items)-1]),
		ItemCount:  len(b.Items),
	}, nil
}

// RemoveItem removes an item from a billing.
func (s *ItemServiceImpl) RemoveItem(ctx context.Context, req primary.RemoveItemRequest) error {
	itemID := strings.TrimSpace(req.ItemID)
	billingID := corebilling.NormalizeNumber(req.BillingID)

	_, err := s.store.Update(ctx, func(state tracking.State) ([]tracking.Action, error) {
		b, err := editableBilling(state, req.ShipmentID, billingID)
		if err != nil {
			return nil, err
		}
		if !b.HasItem(itemID) {
			return nil, fmt.Errorf("%w: %s in billing %s", coreerrors.ErrItemNotFound, itemID, billingID)
		}
		return []tracking.Action{tracking.RemoveItemFromBilling{
			ShipmentID: req.ShipmentID,
			BillingID:  billingID,
			ItemID:     itemID,
		}}, nil
	})
	if err != nil {
		s.logger.Warn("remove item refused", zap.String("item", itemID), zap.Error(err))
		return err
	}
	s.logger.Info("item removed", zap.String("shipment", req.ShipmentID), zap.String("billing", billingID), zap.String("item", itemID))
	return nil
}

// TraceItem finds every billing an item code was scanned into. The first
// result is the canonical location.
func (s *ItemServiceImpl) TraceItem(ctx context.Context, code string) ([]*primary.ItemTrace, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, coreerrors.ErrEmptyCode
	}

	locations := tracking.FindItem(s.store.Snapshot(), code)
	if len(locations) == 0 {
		return nil, fmt.Errorf("%w: %s", coreerrors.ErrItemNotFound, code)
	}

	traces := make([]*primary.ItemTrace, len(locations))
	for i, loc := range locations {
		traces[i] = &primary.ItemTrace{
			ShipmentID:     loc.ShipmentID,
			ShipmentStatus: string(loc.ShipmentStatus),
			BillingID:      loc.BillingID,
			Item:           toPrimaryItem(loc.Item),
		}
	}
	return traces, nil
}

// Ensure ItemServiceImpl implements the interface
var _ primary.ItemService = (*ItemServiceImpl)(nil)
