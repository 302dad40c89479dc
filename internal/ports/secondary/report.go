package secondary

import "io"

// ReportWriter defines the secondary port for rendering a report into a
// document format.
type ReportWriter interface {
	// Write renders report to w.
	Write(w io.Writer, report *Report) error

	// Format returns the short format name, e.g. xlsx.
	Format() string
}

// Report is a flattened, read-only view of the tracking tree prepared for
// rendering. Writers never interpret domain rules.
type Report struct {
	Title       string
	GeneratedAt string
	GeneratedBy string
	Shipments   []ReportShipment
	Items       []ReportItemRow
	Audit       []ReportAuditRow
}

// ReportShipment is one shipment summary row.
type ReportShipment struct {
	ID             string
	Name           string
	TrackingNumber string
	Origin         string
	Destination    string
	Status         string
	Creator        string
	CreatedAt      string
	BillingCount   int
	ItemCount      int
}

// ReportItemRow is one scanned item with its location.
type ReportItemRow struct {
	ShipmentID    string
	BillingID     string
	BillingStatus string
	ItemID        string
	Creator       string
	CreatedAt     string
}

// ReportAuditRow is one audit entry.
type ReportAuditRow struct {
	Timestamp  string
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	ShipmentID string
	Change     string
}
