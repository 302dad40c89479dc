package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	coreerrors "github.com/example/shiptrack/internal/core/errors"
	"github.com/example/shiptrack/internal/core/policy"
	coreshipment "github.com/example/shiptrack/internal/core/shipment"
	"github.com/example/shiptrack/internal/core/tracking"
	"github.com/example/shiptrack/internal/ctxutil"
	"github.com/example/shiptrack/internal/ports/primary"
	"github.com/example/shiptrack/internal/ports/secondary"
)

// ShipmentServiceImpl implements the ShipmentService interface.
type ShipmentServiceImpl struct {
	store    *TrackingStore
	work     *workContextStore
	linkBase string
	logger   *zap.Logger
	now      func() time.Time
}

// NewShipmentService creates a new ShipmentService with injected dependencies.
func NewShipmentService(
	store *TrackingStore,
	stateRepo secondary.StateRepository,
	linkBase string,
	logger *zap.Logger,
) *ShipmentServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShipmentServiceImpl{
		store:    store,
		work:     newWorkContextStore(stateRepo),
		linkBase: linkBase,
		logger:   logger,
		now:      time.Now,
	}
}

// ResolveShipment looks up a scanned or entered code.
func (s *ShipmentServiceImpl) ResolveShipment(ctx context.Context, code string) (*primary.ShipmentResolution, error) {
	code = strings.TrimSpace(code)
	state := s.store.Snapshot()
	existing, exists := state.Shipment(code)

	kind, result := coreshipment.ResolveShipment(coreshipment.ResolveContext{
		Code:   code,
		Exists: exists,
		Status: existing.Status,
	})
	if !result.Allowed {
		s.logger.Warn("shipment resolution refused", zap.String("code", code), zap.String("reason", result.Reason))
		return nil, result.Error()
	}

	if kind == coreshipment.ResolutionContinue {
		return &primary.ShipmentResolution{
			Kind:     primary.ResolutionContinue,
			Shipment: toPrimaryShipment(existing, state),
		}, nil
	}

	wc, err := s.work.load(ctx)
	if err != nil {
		return nil, err
	}

	// Re-scanning the same code before confirming returns the same record
	if wc.Staged == nil || wc.Staged.ID != code {
		wc.Staged = &tracking.Shipment{
			ID:        code,
			Creator:   ctxutil.ActorFromContext(ctx),
			CreatedAt: s.now().UTC().Format(time.RFC3339),
			Status:    tracking.ShipmentPending,
			Billings:  []tracking.Billing{},
		}
		if err := s.work.save(ctx, wc); err != nil {
			return nil, fmt.Errorf("failed to stage shipment: %w", err)
		}
	}

	staged := toPrimaryShipment(*wc.Staged, state)
	staged.Staged = true
	return &primary.ShipmentResolution{Kind: primary.ResolutionNew, Shipment: staged}, nil
}

// ConfirmShipment commits a resolution and makes the shipment current.
func (s *ShipmentServiceImpl) ConfirmShipment(ctx context.Context, req primary.ConfirmShipmentRequest) (*primary.Shipment, error) {
	code := strings.TrimSpace(req.Code)
	resolution, err := s.ResolveShipment(ctx, code)
	if err != nil {
		return nil, err
	}

	wc, err := s.work.load(ctx)
	if err != nil {
		return nil, err
	}

	_, err = s.store.Update(ctx, func(state tracking.State) ([]tracking.Action, error) {
		// Scanning follows the opened shipment
		actions := releaseOtherActive(state, code)
		if resolution.Kind == primary.ResolutionNew {
			staged := *wc.Staged
			staged.Name = firstNonEmpty(req.Name, staged.Name)
			staged.TrackingNumber = firstNonEmpty(req.TrackingNumber, staged.TrackingNumber)
			staged.Origin = firstNonEmpty(req.Origin, staged.Origin)
			staged.Destination = firstNonEmpty(req.Destination, staged.Destination)
			actions = append(actions, tracking.AddShipment{Shipment: staged})
		}
		return actions, nil
	})
	if err != nil {
		return nil, err
	}
	if resolution.Kind == primary.ResolutionNew {
		s.logger.Info("shipment added", zap.String("shipment", code))
	}

	wc.Staged = nil
	wc.CurrentCode = code
	if err := s.work.save(ctx, wc); err != nil {
		return nil, fmt.Errorf("failed to set current shipment: %w", err)
	}

	return s.GetShipment(ctx, code)
}

// CurrentShipment returns the shipment the operator is working on.
func (s *ShipmentServiceImpl) CurrentShipment(ctx context.Context) (*primary.Shipment, error) {
	wc, err := s.work.load(ctx)
	if err != nil {
		return nil, err
	}
	if wc.CurrentCode == "" {
		return nil, coreerrors.ErrNoCurrentShipment
	}
	shipment, err := s.GetShipment(ctx, wc.CurrentCode)
	if err != nil {
		return nil, err
	}
	shipment.Current = true
	return shipment, nil
}

// GetShipment retrieves a shipment by code. A staged, unconfirmed shipment
// is returned with Staged set.
func (s *ShipmentServiceImpl) GetShipment(ctx context.Context, code string) (*primary.Shipment, error) {
	state := s.store.Snapshot()
	if sh, ok := state.Shipment(code); ok {
		return toPrimaryShipment(sh, state), nil
	}

	wc, err := s.work.load(ctx)
	if err != nil {
		return nil, err
	}
	if wc.Staged != nil && wc.Staged.ID == code {
		staged := toPrimaryShipment(*wc.Staged, state)
		staged.Staged = true
		return staged, nil
	}
	return nil, fmt.Errorf("%w: %s", coreerrors.ErrShipmentNotFound, code)
}

// ListShipments lists shipments with optional filters, in creation order.
func (s *ShipmentServiceImpl) ListShipments(ctx context.Context, filters primary.ShipmentFilters) ([]*primary.Shipment, error) {
	state := s.store.Snapshot()
	wc, err := s.work.load(ctx)
	if err != nil {
		return nil, err
	}

	var shipments []*primary.Shipment
	for _, sh := range state.Shipments {
		if filters.Status != "" && string(sh.Status) != strings.ToUpper(filters.Status) {
			continue
		}
		if filters.Creator != "" && sh.Creator != filters.Creator {
			continue
		}
		out := toPrimaryShipment(sh, state)
		out.Current = sh.ID == wc.CurrentCode
		shipments = append(shipments, out)
	}
	return shipments, nil
}

// CreateShipment promotes a PENDING shipment to IN_PROGRESS. An empty code
// means the current shipment.
func (s *ShipmentServiceImpl) CreateShipment(ctx context.Context, code string) error {
	code, err := s.codeOrCurrent(ctx, code)
	if err != nil {
		return err
	}

	_, err = s.store.Update(ctx, func(state tracking.State) ([]tracking.Action, error) {
		sh, ok := state.Shipment(code)
		if !ok {
			return nil, fmt.Errorf("%w: %s", coreerrors.ErrShipmentNotFound, code)
		}

		guardCtx := coreshipment.CreateShipmentContext{ShipmentID: sh.ID, Status: sh.Status}
		for _, b := range sh.Billings {
			guardCtx.Billings = append(guardCtx.Billings, coreshipment.BillingSummary{ID: b.ID, ItemCount: len(b.Items)})
		}
		if result := coreshipment.CanCreateShipment(guardCtx); !result.Allowed {
			return nil, result.Error()
		}

		actions := []tracking.Action{tracking.UpdateShipmentStatus{ShipmentID: code, Status: tracking.ShipmentInProgress}}
		return append(actions, releaseActive(state, code)...), nil
	})
	if err != nil {
		s.logger.Warn("create shipment refused", zap.String("shipment", code), zap.Error(err))
		return err
	}
	s.logger.Info("shipment created", zap.String("shipment", code))
	return nil
}

// CompleteShipment marks an IN_PROGRESS shipment as COMPLETED.
func (s *ShipmentServiceImpl) CompleteShipment(ctx context.Context, code string) error {
	return s.transition(ctx, code, tracking.ShipmentCompleted, coreshipment.CanCompleteShipment)
}

// CancelShipment cancels a PENDING or IN_PROGRESS shipment.
func (s *ShipmentServiceImpl) CancelShipment(ctx context.Context, code string) error {
	return s.transition(ctx, code, tracking.ShipmentCancelled, coreshipment.CanCancelShipment)
}

func (s *ShipmentServiceImpl) transition(
	ctx context.Context,
	code string,
	to tracking.ShipmentStatus,
	guard func(coreshipment.StatusTransitionContext) coreshipment.GuardResult,
) error {
	code, err := s.codeOrCurrent(ctx, code)
	if err != nil {
		return err
	}

	_, err = s.store.Update(ctx, func(state tracking.State) ([]tracking.Action, error) {
		sh, ok := state.Shipment(code)
		if !ok {
			return nil, fmt.Errorf("%w: %s", coreerrors.ErrShipmentNotFound, code)
		}
		if result := guard(coreshipment.StatusTransitionContext{ShipmentID: code, Status: sh.Status}); !result.Allowed {
			return nil, result.Error()
		}
		actions := []tracking.Action{tracking.UpdateShipmentStatus{ShipmentID: code, Status: to}}
		return append(actions, releaseActive(state, code)...), nil
	})
	if err != nil {
		s.logger.Warn("shipment transition refused", zap.String("shipment", code), zap.String("to", string(to)), zap.Error(err))
		return err
	}
	s.logger.Info("shipment status changed", zap.String("shipment", code), zap.String("to", string(to)))
	return nil
}

// ClearShipment discards the staged shipment and, if it is still PENDING,
// the current shipment, then clears the current shipment context.
func (s *ShipmentServiceImpl) ClearShipment(ctx context.Context) error {
	wc, err := s.work.load(ctx)
	if err != nil {
		return err
	}
	if wc.Staged == nil && wc.CurrentCode == "" {
		return coreerrors.ErrNoCurrentShipment
	}

	if code := wc.CurrentCode; code != "" {
		_, err := s.store.Update(ctx, func(state tracking.State) ([]tracking.Action, error) {
			sh, ok := state.Shipment(code)
			if !ok {
				return nil, nil
			}
			// Shipments that left PENDING are kept; only the context closes
			if result := coreshipment.CanEditShipment(coreshipment.StatusTransitionContext{ShipmentID: code, Status: sh.Status}); !result.Allowed {
				return releaseActive(state, code), nil
			}
			return []tracking.Action{tracking.RemoveShipment{ShipmentID: code}}, nil
		})
		if err != nil {
			return err
		}
	}

	if err := s.work.save(ctx, workContext{}); err != nil {
		return fmt.Errorf("failed to clear current shipment: %w", err)
	}
	s.logger.Info("shipment cleared", zap.String("shipment", wc.CurrentCode))
	return nil
}

// DeleteShipment removes a shipment and everything it owns. Admin only.
func (s *ShipmentServiceImpl) DeleteShipment(ctx context.Context, code string) error {
	role := policy.Role(ctxutil.RoleFromContext(ctx))
	if !policy.Can(role, policy.CapDeleteShipment) {
		return fmt.Errorf("%w: deleting shipments requires admin", coreerrors.ErrForbidden)
	}

	_, err := s.store.Update(ctx, func(state tracking.State) ([]tracking.Action, error) {
		if _, ok := state.Shipment(code); !ok {
			return nil, fmt.Errorf("%w: %s", coreerrors.ErrShipmentNotFound, code)
		}
		return []tracking.Action{tracking.RemoveShipment{ShipmentID: code}}, nil
	})
	if err != nil {
		return err
	}

	wc, err := s.work.load(ctx)
	if err != nil {
		return err
	}
	if wc.CurrentCode == code {
		wc.CurrentCode = ""
		if err := s.work.save(ctx, wc); err != nil {
			return fmt.Errorf("failed to clear current shipment: %w", err)
		}
	}

	s.logger.Info("shipment deleted", zap.String("shipment", code))
	return nil
}

// ShipmentLink returns the routing link for a shipment code.
func (s *ShipmentServiceImpl) ShipmentLink(code string) string {
	return coreshipment.Link(s.linkBase, code)
}

func (s *ShipmentServiceImpl) codeOrCurrent(ctx context.Context, code string) (string, error) {
	if code = strings.TrimSpace(code); code != "" {
		return code, nil
	}
	wc, err := s.work.load(ctx)
	if err != nil {
		return "", err
	}
	if wc.CurrentCode == "" {
		return "", coreerrors.ErrNoCurrentShipment
	}
	return wc.CurrentCode, nil
}

// releaseActive clears the active billing if it belongs to shipmentID. Only
// PENDING shipments accept scans.
func releaseActive(state tracking.State, shipmentID string) []tracking.Action {
	if state.ActiveBilling != nil && state.ActiveBilling.ShipmentID == shipmentID {
		return []tracking.Action{tracking.SetActiveBilling{}}
	}
	return nil
}

// releaseOtherActive clears the active billing when it belongs to a
// shipment other than shipmentID.
func releaseOtherActive(state tracking.State, shipmentID string) []tracking.Action {
	if state.ActiveBilling != nil && state.ActiveBilling.ShipmentID != shipmentID {
		return []tracking.Action{tracking.SetActiveBilling{}}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// Ensure ShipmentServiceImpl implements the interface
var _ primary.ShipmentService = (*ShipmentServiceImpl)(nil)
