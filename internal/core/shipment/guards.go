// Package shipment contains the pure business logic for shipment operations.
// Guards are pure functions that evaluate preconditions without side effects.
package shipment

import (
	"fmt"
	"strings"

	coreerrors "github.com/example/shiptrack/internal/core/errors"
	"github.com/example/shiptrack/internal/core/tracking"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
	Cause   error // sentinel matched by errors.Is on Error()
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return &guardError{reason: r.Reason, cause: r.Cause}
}

type guardError struct {
	reason string
	cause  error
}

func (e *guardError) Error() string { return e.reason }
func (e *guardError) Unwrap() error { return e.cause }

func deny(cause error, format string, args ...any) GuardResult {
	return GuardResult{Allowed: false, Reason: fmt.Sprintf(format, args...), Cause: cause}
}

// ResolutionKind is the outcome of resolving a scanned shipment code.
type ResolutionKind string

const (
	ResolutionNew      ResolutionKind = "new"
	ResolutionContinue ResolutionKind = "continue"
)

// ResolveContext provides context for shipment code resolution.
type ResolveContext struct {
	Code   string
	Exists bool
	Status tracking.ShipmentStatus
}

// ResolveShipment decides whether a scanned code starts a new shipment or
// resumes an existing one.
// Rules:
// - Code must not be empty
// - Unknown code → new shipment
// - Known PENDING shipment → continue
// - Any other status → refused; a shipment that left PENDING cannot be re-entered
func ResolveShipment(ctx ResolveContext) (ResolutionKind, GuardResult) {
	if strings.TrimSpace(ctx.Code) == "" {
		return "", deny(coreerrors.ErrEmptyCode, "shipment code is empty")
	}
	if !ctx.Exists {
		return ResolutionNew, GuardResult{Allowed: true}
	}
	if ctx.Status != tracking.ShipmentPending {
		return "", deny(coreerrors.ErrShipmentFinalized,
			"shipment %s is already %s and cannot be reopened for scanning", ctx.Code, ctx.Status)
	}
	return ResolutionContinue, GuardResult{Allowed: true}
}

// BillingSummary contains minimal billing info for guard evaluation.
type BillingSummary struct {
	ID        string
	ItemCount int
}

// CreateShipmentContext provides context for the "create shipment"
// confirmation that promotes PENDING → IN_PROGRESS.
type CreateShipmentContext struct {
	ShipmentID string
	Status     tracking.ShipmentStatus
	Billings   []BillingSummary
}

// CanCreateShipment evaluates whether a shipment can be promoted.
// Rules:
// - Status must be PENDING
// - At least one billing
// - Every billing holds at least one item
func CanCreateShipment(ctx CreateShipmentContext) GuardResult {
	if ctx.Status != tracking.ShipmentPending {
		return deny(coreerrors.ErrInvalidTransition,
			"can only create pending shipments (current status: %s)", ctx.Status)
	}
	if len(ctx.Billings) == 0 {
		return deny(coreerrors.ErrCannotCreateShipment,
			"cannot create shipment %s: no billings. Add one with: shiptrack billing add <number>", ctx.ShipmentID)
	}

	var empty []string
	for _, b := range ctx.Billings {
		if b.ItemCount == 0 {
			empty = append(empty, b.ID)
		}
	}
	if len(empty) > 0 {
		return deny(coreerrors.ErrCannotCreateShipment,
			"cannot create shipment %s: %d billing(s) without items (%s)",
			ctx.ShipmentID, len(empty), strings.Join(empty, ", "))
	}

	return GuardResult{Allowed: true}
}

// StatusTransitionContext provides context for status transition guards.
type StatusTransitionContext struct {
	ShipmentID string
	Status     tracking.ShipmentStatus
}

// CanCompleteShipment evaluates whether a shipment can be completed.
// Rules:
// - Status must be IN_PROGRESS
func CanCompleteShipment(ctx StatusTransitionContext) GuardResult {
	if ctx.Status != tracking.ShipmentInProgress {
		return deny(coreerrors.ErrInvalidTransition,
			"can only complete in-progress shipments (current status: %s)", ctx.Status)
	}
	return GuardResult{Allowed: true}
}

// CanCancelShipment evaluates whether a shipment can be cancelled.
// Rules:
// - Status must be PENDING or IN_PROGRESS
func CanCancelShipment(ctx StatusTransitionContext) GuardResult {
	if ctx.Status != tracking.ShipmentPending && ctx.Status != tracking.ShipmentInProgress {
		return deny(coreerrors.ErrInvalidTransition,
			"can only cancel pending or in-progress shipments (current status: %s)", ctx.Status)
	}
	return GuardResult{Allowed: true}
}

// CanEditShipment evaluates whether billings and items of a shipment may
// still be added, removed or re-scanned.
// Rules:
// - Status must be PENDING
func CanEditShipment(ctx StatusTransitionContext) GuardResult {
	if ctx.Status != tracking.ShipmentPending {
		return deny(coreerrors.ErrShipmentNotEditable,
			"shipment %s is %s; billings and items can only change while PENDING", ctx.ShipmentID, ctx.Status)
	}
	return GuardResult{Allowed: true}
}
