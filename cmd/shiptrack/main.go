package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/shiptrack/internal/cli"
	"github.com/example/shiptrack/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "shiptrack",
		Short:   "shiptrack - scan-driven shipment tracking",
		Version: version.String(),
		Long: `shiptrack builds shipments from scanned codes. A shipment holds billings,
a billing holds scanned items, and one billing at a time is active for scanning.`,
		PersistentPreRunE: cli.Authorize,
		SilenceUsage:      true,
	}

	// Session
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.LoginCmd())
	rootCmd.AddCommand(cli.LogoutCmd())
	rootCmd.AddCommand(cli.WhoAmICmd())

	// Tracking
	rootCmd.AddCommand(cli.ScanCmd())
	rootCmd.AddCommand(cli.ShipmentCmd())
	rootCmd.AddCommand(cli.BillingCmd())
	rootCmd.AddCommand(cli.ItemCmd())

	// Admin
	rootCmd.AddCommand(cli.EmployeeCmd())
	rootCmd.AddCommand(cli.AuditCmd())
	rootCmd.AddCommand(cli.ExportCmd())

	err := rootCmd.Execute()
	cli.Shutdown()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
