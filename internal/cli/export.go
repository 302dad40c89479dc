package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/shiptrack/internal/core/policy"
	"github.com/example/shiptrack/internal/ports/primary"
	"github.com/example/shiptrack/internal/wire"
)

var exportCmd = requires(policy.CapExport, &cobra.Command{
	Use:   "export",
	Short: "Export shipments to Excel or PDF (admin)",
})

var exportExcelCmd = requires(policy.CapExport, &cobra.Command{
	Use:   "excel <out.xlsx>",
	Short: "Write an Excel workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, args[0], wire.ExportService().ExportExcel)
	},
})

var exportPDFCmd = requires(policy.CapExport, &cobra.Command{
	Use:   "pdf <out.pdf>",
	Short: "Write a PDF report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, args[0], wire.ExportService().ExportPDF)
	},
})

type exportFunc func(ctx context.Context, w io.Writer, req primary.ExportRequest) error

// runExport writes a report to path. A failed export leaves no file behind.
func runExport(cmd *cobra.Command, path string, export exportFunc) error {
	shipment, _ := cmd.Flags().GetString("shipment")
	audit, _ := cmd.Flags().GetBool("audit")
	auditLimit, _ := cmd.Flags().GetInt("audit-limit")

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	err = export(NewContext(), f, primary.ExportRequest{
		ShipmentID:   shipment,
		IncludeAudit: audit,
		AuditLimit:   auditLimit,
	})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("failed to export: %w", err)
	}

	fmt.Printf("✓ Exported to %s\n", path)
	return nil
}

func init() {
	for _, c := range []*cobra.Command{exportExcelCmd, exportPDFCmd} {
		c.Flags().String("shipment", "", "Export a single shipment")
		c.Flags().Bool("audit", false, "Include the audit log")
		c.Flags().Int("audit-limit", 500, "Maximum audit entries to include")
	}

	exportCmd.AddCommand(exportExcelCmd)
	exportCmd.AddCommand(exportPDFCmd)
}

// ExportCmd returns the export command
func ExportCmd() *cobra.Command {
	return exportCmd
}
