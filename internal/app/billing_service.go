package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	corebilling "github.com/example/shiptrack/internal/core/billing"
	coreerrors "github.com/example/shiptrack/internal/core/errors"
	coreshipment "github.com/example/shiptrack/internal/core/shipment"
	"github.com/example/shiptrack/internal/core/tracking"
	"github.com/example/shiptrack/internal/ctxutil"
	"github.com/example/shiptrack/internal/ports/primary"
)

// BillingServiceImpl implements the BillingService interface.
type BillingServiceImpl struct {
	store  *TrackingStore
	logger *zap.Logger
	now    func() time.Time
}

// NewBillingService creates a new BillingService with injected dependencies.
func NewBillingService(store *TrackingStore, logger *zap.Logger) *BillingServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BillingServiceImpl{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// ResolveBilling validates a billing number against the shipment without
// changing anything.
func (s *BillingServiceImpl) ResolveBilling(ctx context.Context, shipmentID, number string) (*primary.BillingResolution, error) {
	number = corebilling.NormalizeNumber(number)
	state := s.store.Snapshot()

	kind, billing, err := resolveBilling(state, shipmentID, number)
	if err != nil {
		s.logger.Warn("billing resolution refused", zap.String("shipment", shipmentID), zap.String("billing", number), zap.Error(err))
		return nil, err
	}

	resolution := &primary.BillingResolution{Kind: string(kind), ShipmentID: shipmentID}
	if kind == corebilling.ResolutionNew {
		resolution.Billing = &primary.Billing{ID: number, Status: string(tracking.BillingScanning), Items: []*primary.Item{}}
	} else {
		resolution.Billing = toPrimaryBilling(billing, state.IsActive(shipmentID, number))
	}
	return resolution, nil
}

// ConfirmBilling applies a resolution: a new number creates the billing, a
// completed one is reopened, and in every case the billing becomes active.
func (s *BillingServiceImpl) ConfirmBilling(ctx context.Context, shipmentID, number string) (*primary.BillingResolution, error) {
	number = corebilling.NormalizeNumber(number)
	var kind corebilling.ResolutionKind

	_, err := s.store.Update(ctx, func(state tracking.State) ([]tracking.Action, error) {
		var err error
		kind, _, err = resolveBilling(state, shipmentID, number)
		if err != nil {
			return nil, err
		}

		var actions []tracking.Action
		switch kind {
		case corebilling.ResolutionNew:
			actions = append(actions, tracking.AddBilling{
				ShipmentID: shipmentID,
				Billing: tracking.Billing{
					ID:        number,
					Status:    tracking.BillingScanning,
					Items:     []tracking.Item{},
					Creator:   ctxutil.ActorFromContext(ctx),
					CreatedAt: s.now().UTC().Format(time.RFC3339),
				},
			})
		case corebilling.ResolutionReopen:
			actions = append(actions, tracking.UpdateBillingStatus{
				ShipmentID: shipmentID,
				BillingID:  number,
				Status:     tracking.BillingScanning,
			})
		}
		ref := tracking.BillingRef{ShipmentID: shipmentID, BillingID: number}
		return append(actions, tracking.SetActiveBilling{Ref: &ref}), nil
	})
	if err != nil {
		s.logger.Warn("billing confirmation refused", zap.String("shipment", shipmentID), zap.String("billing", number), zap.Error(err))
		return nil, err
	}
	s.logger.Info("billing active", zap.String("shipment", shipmentID), zap.String("billing", number), zap.String("resolution", string(kind)))

	state := s.store.Snapshot()
	sh, _ := state.Shipment(shipmentID)
	b, _ := sh.Billing(number)
	return &primary.BillingResolution{
		Kind:       string(kind),
		ShipmentID: shipmentID,
		Billing:    toPrimaryBilling(b, state.IsActive(shipmentID, number)),
	}, nil
}

// ActivateBilling makes an existing scanning billing the active one.
func (s *BillingServiceImpl) ActivateBilling(ctx context.Context, shipmentID, number string) error {
	number = corebilling.NormalizeNumber(number)
	_, err := s.store.Update(ctx, func(state tracking.State) ([]tracking.Action, error) {
		b, err := editableBilling(state, shipmentID, number)
		if err != nil {
			return nil, err
		}
		if result := corebilling.CanActivateBilling(number, b.Status); !result.Allowed {
			return nil, result.Error()
		}
		return []tracking.Action{tracking.SetActiveBilling{Ref: &tracking.BillingRef{ShipmentID: shipmentID, BillingID: number}}}, nil
	})
	if err != nil {
		s.logger.Warn("activate billing refused", zap.String("shipment", shipmentID), zap.String("billing", number), zap.Error(err))
	}
	return err
}

// CompleteBilling marks a scanning billing as COMPLETED. If it was active,
// the active billing is cleared.
func (s *BillingServiceImpl) CompleteBilling(ctx context.Context, shipmentID, number string) error {
	number = corebilling.NormalizeNumber(number)
	_, err := s.store.Update(ctx, func(state tracking.State) ([]tracking.Action, error) {
		b, err := editableBilling(state, shipmentID, number)
		if err != nil {
			return nil, err
		}
		if result := corebilling.CanCompleteBilling(number, b.Status); !result.Allowed {
			return nil, result.Error()
		}
		actions := []tracking.Action{tracking.UpdateBillingStatus{
			ShipmentID: shipmentID,
			BillingID:  number,
			Status:     tracking.BillingCompleted,
		}}
		if state.IsActive(shipmentID, number) {
			actions = append(actions, tracking.SetActiveBilling{})
		}
		return actions, nil
	})
	if err != nil {
		s.logger.Warn("complete billing refused", zap.String("shipment", shipmentID), zap.String("billing", number), zap.Error(err))
		return err
	}
	s.logger.Info("billing completed", zap.String("shipment", shipmentID), zap.String("billing", number))
	return nil
}

// RemoveBilling deletes a billing and its items.
func (s *BillingServiceImpl) RemoveBilling(ctx context.Context, shipmentID, number string) error {
	number = corebilling.NormalizeNumber(number)
	_, err := s.store.Update(ctx, func(state tracking.State) ([]tracking.Action, error) {
		if _, err := editableBilling(state, shipmentID, number); err != nil {
			return nil, err
		}
		return []tracking.Action{tracking.RemoveBilling{ShipmentID: shipmentID, BillingID: number}}, nil
	})
	if err != nil {
		s.logger.Warn("remove billing refused", zap.String("shipment", shipmentID), zap.String("billing", number), zap.Error(err))
		return err
	}
	s.logger.Info("billing removed", zap.String("shipment", shipmentID), zap.String("billing", number))
	return nil
}

// ListBillings lists the billings of a shipment in scan order.
func (s *BillingServiceImpl) ListBillings(ctx context.Context, shipmentID string) ([]*primary.Billing, error) {
	state := s.store.Snapshot()
	sh, ok := state.Shipment(shipmentID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", coreerrors.ErrShipmentNotFound, shipmentID)
	}
	return toPrimaryShipment(sh, state).Billings, nil
}

// ActiveBilling returns the globally active billing, or nil if none.
func (s *BillingServiceImpl) ActiveBilling(ctx context.Context) (*primary.ActiveBillingRef, error) {
	state := s.store.Snapshot()
	if state.ActiveBilling == nil {
		return nil, nil
	}
	return &primary.ActiveBillingRef{
		ShipmentID: state.ActiveBilling.ShipmentID,
		BillingID:  state.ActiveBilling.BillingID,
	}, nil
}

// resolveBilling runs the resolution guard for number within shipmentID.
func resolveBilling(state tracking.State, shipmentID, number string) (corebilling.ResolutionKind, tracking.Billing, error) {
	sh, err := editableShipment(state, shipmentID)
	if err != nil {
		return "", tracking.Billing{}, err
	}
	b, exists := sh.Billing(number)
	kind, result := corebilling.ResolveBilling(corebilling.ResolveContext{
		Number: number,
		Exists: exists,
		Status: b.Status,
	})
	if !result.Allowed {
		return "", tracking.Billing{}, result.Error()
	}
	return kind, b, nil
}

// editableShipment returns the shipment if billings and items may still change.
func editableShipment(state tracking.State, shipmentID string) (tracking.Shipment, error) {
	sh, ok := state.Shipment(shipmentID)
	if !ok {
		return tracking.Shipment{}, fmt.Errorf("%w: %s", coreerrors.ErrShipmentNotFound, shipmentID)
	}
	if result := coreshipment.CanEditShipment(coreshipment.StatusTransitionContext{ShipmentID: sh.ID, Status: sh.Status}); !result.Allowed {
		return tracking.Shipment{}, result.Error()
	}
	return sh, nil
}

// editableBilling returns an existing billing of an editable shipment.
func editableBilling(state tracking.State, shipmentID, number string) (tracking.Billing, error) {
	sh, err := editableShipment(state, shipmentID)
	if err != nil {
		return tracking.Billing{}, err
	}
	b, ok := sh.Billing(number)
	if !ok {
		return tracking.Billing{}, fmt.Errorf("%w: %s in shipment %s", coreerrors.ErrBillingNotFound, number, shipmentID)
	}
	return b, nil
}

// Ensure BillingServiceImpl implements the interface
var _ primary.BillingService = (*BillingServiceImpl)(nil)
