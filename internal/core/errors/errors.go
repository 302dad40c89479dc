// Package errors holds the sentinel errors shared by the core, the
// application services and the CLI. Callers match them with errors.Is.
package errors

import "errors"

var (
	// Shipment errors
	ErrShipmentNotFound     = errors.New("shipment not found")
	ErrShipmentFinalized    = errors.New("shipment already finalized")
	ErrShipmentNotEditable  = errors.New("shipment is not editable")
	ErrCannotCreateShipment = errors.New("shipment cannot be created")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrNoCurrentShipment    = errors.New("no current shipment")

	// Billing errors
	ErrBillingNotFound      = errors.New("billing not found")
	ErrInvalidBillingNumber = errors.New("invalid billing number")
	ErrDuplicateBilling     = errors.New("billing already exists")
	ErrBillingCompleted     = errors.New("billing is completed")
	ErrNoActiveBilling      = errors.New("no active billing")

	// Item errors
	ErrItemNotFound  = errors.New("item not found")
	ErrDuplicateItem = errors.New("item already scanned")
	ErrEmptyCode     = errors.New("code is empty")

	// Session / access errors
	ErrNotLoggedIn  = errors.New("not logged in")
	ErrUnknownUser  = errors.New("unknown user")
	ErrForbidden    = errors.New("operation not permitted for role")
	ErrUserNotFound = errors.New("employee not found")
	ErrUserExists   = errors.New("employee already exists")
)
