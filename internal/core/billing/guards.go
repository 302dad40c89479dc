// Package billing contains the pure business logic for billing and item
// scanning. Guards are pure functions that evaluate preconditions without
// side effects.
package billing

import (
	"fmt"
	"strings"
	"unicode/utf8"

	coreerrors "github.com/example/shiptrack/internal/core/errors"
	"github.com/example/shiptrack/internal/core/tracking"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
	Cause   error
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

// NormalizeNumber trims surrounding whitespace from an entered or scanned
// billing number.
func NormalizeNumber(number string) string {
	return strings.TrimSpace(number)
}

// ValidateNumber checks that a billing number is exactly 10 characters.
func ValidateNumber(number string) GuardResult {
	if n := utf8.RuneCountInString(number); n != tracking.BillingNumberLength {
		return deny(coreerrors.ErrInvalidBillingNumber,
			"billing number %q must be exactly %d characters (got %d)", number, tracking.BillingNumberLength, n)
	}
	return GuardResult{Allowed: true}
}

// ResolutionKind is the outcome of entering a billing number.
type ResolutionKind string

const (
	ResolutionNew      ResolutionKind = "new"
	ResolutionContinue ResolutionKind = "continue"
	ResolutionReopen   ResolutionKind = "reopen"
)

// ResolveContext provides context for billing number resolution within the
// current shipment.
type ResolveContext struct {
	Number string
	Exists bool
	Status tracking.BillingStatus
}

// ResolveBilling decides what entering a billing number means.
// Rules:
// - Number must be exactly 10 characters
// - Unknown number → new billing
// - Existing SCANNING billing → continue scanning
// - Existing COMPLETED billing → reopen (forces SCANNING)
func ResolveBilling(ctx ResolveContext) (ResolutionKind, GuardResult) {
	if result := ValidateNumber(ctx.Number); !result.Allowed {
		return "", result
	}
	if !ctx.Exists {
		return ResolutionNew, GuardResult{Allowed: true}
	}
	if ctx.Status == tracking.BillingCompleted {
		return ResolutionReopen, GuardResult{Allowed: true}
	}
	return ResolutionContinue, GuardResult{Allowed: true}
}

// AddItemContext provides context for scanning an item into a billing.
type AddItemContext struct {
	ItemID          string
	BillingID       string
	BillingStatus   tracking.BillingStatus
	ExistingItemIDs []string
}

// CanAddItem evaluates whether an item may be appended to a billing.
// Rules:
// - Code must not be empty
// - Billing must be SCANNING
// - Code must not already be in this billing
func CanAddItem(ctx AddItemContext) GuardResult {
	if strings.TrimSpace(ctx.ItemID) == "" {
		return deny(coreerrors.ErrEmptyCode, "item code is empty")
	}
	if ctx.BillingStatus != tracking.BillingScanning {
		return deny(coreerrors.ErrBillingCompleted,
			"billing %s is %s. Reopen it with: shiptrack billing add %s", ctx.BillingID, ctx.BillingStatus, ctx.BillingID)
	}
	for _, id := range ctx.ExistingItemIDs {
		if id == ctx.ItemID {
			return deny(coreerrors.ErrDuplicateItem,
				"item %s already scanned into billing %s", ctx.ItemID, ctx.BillingID)
		}
	}
	return GuardResult{Allowed: true}
}

// CanCompleteBilling evaluates whether a billing can be completed.
// Rules:
// - Status must be SCANNING
func CanCompleteBilling(billingID string, status tracking.BillingStatus) GuardResult {
	if status != tracking.BillingScanning {
		return deny(coreerrors.ErrInvalidTransition,
			"can only complete scanning billings (billing %s is %s)", billingID, status)
	}
	return GuardResult{Allowed: true}
}

// CanActivateBilling evaluates whether a billing can become the active one.
// Rules:
// - Status must be SCANNING (a completed billing is reopened, not activated)
func CanActivateBilling(billingID string, status tracking.BillingStatus) GuardResult {
	if status != tracking.BillingScanning {
		return deny(coreerrors.ErrBillingCompleted,
			"billing %s is %s. Reopen it with: shiptrack billing add %s", billingID, status, billingID)
	}
	return GuardResult{Allowed: true}
}
