package primary

import (
	"context"
	"io"
)

// ExportService defines the primary port for read-only report exports.
type ExportService interface {
	// ExportExcel writes an .xlsx workbook to w.
	ExportExcel(ctx context.Context, w io.Writer, req ExportRequest) error

	// ExportPDF writes a PDF report to w.
	ExportPDF(ctx context.Context, w io.Writer, req ExportRequest) error
}

// ExportRequest selects what goes into a report.
type ExportRequest struct {
	ShipmentID   string // empty exports every shipment
	IncludeAudit bool
	AuditLimit   int
}
