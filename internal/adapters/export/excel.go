// Package export renders tracking reports to spreadsheet and document
// formats. Writers only read the report they are given.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/example/shiptrack/internal/ports/secondary"
)

// Sheet names of the workbook.
const (
	SheetShipments = "Shipments"
	SheetItems     = "Items"
	SheetAudit     = "Audit"
)

var (
	shipmentHeader = []string{"Shipment", "Name", "Tracking number", "Origin", "Destination", "Status", "Creator", "Created at", "Billings", "Items"}
	itemHeader     = []string{"Shipment", "Billing", "Billing status", "Item", "Creator", "Created at"}
	auditHeader    = []string{"Timestamp", "Actor", "Action", "Entity type", "Entity", "Shipment", "Change"}
)

// ExcelWriter writes a report as an .xlsx workbook with one sheet per
// section. The Audit sheet is only added when the report carries audit rows.
type ExcelWriter struct{}

// NewExcelWriter creates a new ExcelWriter.
func NewExcelWriter() *ExcelWriter {
	return &ExcelWriter{}
}

// Format returns the file extension of the output.
func (x *ExcelWriter) Format() string { return "xlsx" }

// Write renders report to w.
func (x *ExcelWriter) Write(w io.Writer, report *secondary.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetShipments); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	shipments := make([][]any, len(report.Shipments))
	for i, s := range report.Shipments {
		shipments[i] = []any{s.ID, s.Name, s.TrackingNumber, s.Origin, s.Destination, s.Status, s.Creator, s.CreatedAt, s.BillingCount, s.ItemCount}
	}
	if err := writeSheet(f, SheetShipments, bold, shipmentHeader, shipments); err != nil {
		return err
	}

	items := make([][]any, len(report.Items))
	for i, it := range report.Items {
		items[i] = []any{it.ShipmentID, it.BillingID, it.BillingStatus, it.ItemID, it.Creator, it.CreatedAt}
	}
	if err := writeSheet(f, SheetItems, bold, itemHeader, items); err != nil {
		return err
	}

	if len(report.Audit) > 0 {
		audit := make([][]any, len(report.Audit))
		for i, a := range report.Audit {
			audit[i] = []any{a.Timestamp, a.ActorID, a.Action, a.EntityType, a.EntityID, a.ShipmentID, a.Change}
		}
		if err := writeSheet(f, SheetAudit, bold, auditHeader, audit); err != nil {
			return err
		}
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   report.Title,
		Creator: report.GeneratedBy,
		Created: report.GeneratedAt,
	}); err != nil {
		return fmt.Errorf("failed to set document properties: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, header []string, rows [][]any) error {
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", sheet, err)
		}
	}

	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}

	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", last, 18)
}

// Ensure ExcelWriter implements the interface
var _ secondary.ReportWriter = (*ExcelWriter)(nil)
