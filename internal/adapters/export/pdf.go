package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/example/shiptrack/internal/ports/secondary"
)

const (
	pdfFont       = "Helvetica"
	pdfLineHeight = 6.0
)

type pdfColumn struct {
	title string
	width float64
}

var (
	shipmentColumns = []pdfColumn{
		{"Shipment", 34}, {"Name", 40}, {"Tracking", 34}, {"Origin", 30}, {"Destination", 30},
		{"Status", 26}, {"Creator", 22}, {"Created at", 40}, {"Billings", 16}, {"Items", 14},
	}
	itemColumns = []pdfColumn{
		{"Shipment", 44}, {"Billing", 34}, {"Status", 28}, {"Item", 60}, {"Creator", 28}, {"Created at", 50},
	}
	auditColumns = []pdfColumn{
		{"Timestamp", 42}, {"Actor", 22}, {"Action", 48}, {"Entity", 20}, {"ID", 36}, {"Shipment", 32}, {"Change", 76},
	}
)

// PDFWriter writes a report as a landscape A4 document: a shipment
// summary table, the item listing, and optionally the audit trail.
type PDFWriter struct{}

// NewPDFWriter creates a new PDFWriter.
func NewPDFWriter() *PDFWriter {
	return &PDFWriter{}
}

// Format returns the file extension of the output.
func (p *PDFWriter) Format() string { return "pdf" }

// Write renders report to w.
func (p *PDFWriter) Write(w io.Writer, report *secondary.Report) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle(report.Title, true)
	pdf.SetAuthor(report.GeneratedBy, true)
	pdf.SetCreator("shiptrack", false)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(pdfFont, "I", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont(pdfFont, "B", 16)
	pdf.CellFormat(0, 10, tr(report.Title), "", 1, "L", false, 0, "")
	pdf.SetFont(pdfFont, "", 9)
	pdf.CellFormat(0, pdfLineHeight, tr(fmt.Sprintf("Generated %s by %s", report.GeneratedAt, orDash(report.GeneratedBy))), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	shipments := make([][]string, len(report.Shipments))
	for i, s := range report.Shipments {
		shipments[i] = []string{s.ID, s.Name, s.TrackingNumber, s.Origin, s.Destination, s.Status, s.Creator, s.CreatedAt,
			fmt.Sprint(s.BillingCount), fmt.Sprint(s.ItemCount)}
	}
	writeTable(pdf, tr, "Shipments", shipmentColumns, shipments)

	items := make([][]string, len(report.Items))
	for i, it := range report.Items {
		items[i] = []string{it.ShipmentID, it.BillingID, it.BillingStatus, it.ItemID, it.Creator, it.CreatedAt}
	}
	writeTable(pdf, tr, "Items", itemColumns, items)

	if len(report.Audit) > 0 {
		audit := make([][]string, len(report.Audit))
		for i, a := range report.Audit {
			audit[i] = []string{a.Timestamp, a.ActorID, a.Action, a.EntityType, a.EntityID, a.ShipmentID, a.Change}
		}
		writeTable(pdf, tr, "Audit trail", auditColumns, audit)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

func writeTable(pdf *fpdf.Fpdf, tr func(string) string, title string, columns []pdfColumn, rows [][]string) {
	pdf.SetFont(pdfFont, "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")

	pdf.SetFont(pdfFont, "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, c := range columns {
		pdf.CellFormat(c.width, pdfLineHeight, c.title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(pdfFont, "", 8)
	if len(rows) == 0 {
		pdf.CellFormat(0, pdfLineHeight, "None", "1", 1, "L", false, 0, "")
	}
	for _, row := range rows {
		for i, c := range columns {
			pdf.CellFormat(c.width, pdfLineHeight, fit(pdf, tr(row[i]), c.width), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

// fit truncates s so it renders inside a cell of width w.
func fit(pdf *fpdf.Fpdf, s string, w float64) string {
	limit := w - 2*pdf.GetCellMargin()
	if pdf.GetStringWidth(s) <= limit {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > limit {
		s = s[:len(s)-1]
	}
	return s + "..."
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Ensure PDFWriter implements the interface
var _ secondary.ReportWriter = (*PDFWriter)(nil)
