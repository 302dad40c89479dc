package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/shiptrack/internal/adapters/terminal"
	"github.com/example/shiptrack/internal/app"
	"github.com/example/shiptrack/internal/core/policy"
	"github.com/example/shiptrack/internal/ports/primary"
	"github.com/example/shiptrack/internal/wire"
)

var scanCmd = requires(policy.CapScan, &cobra.Command{
	Use:   "scan",
	Short: "Read codes from a keyboard-wedge scanner",
	Long: `Start an interactive scan session. Keystrokes typed faster than the
inactivity timeout and terminated by Enter or Tab are read as one scan.

A shipment scan opens the shipment and switches to billing mode; a billing
scan opens the billing and switches to item mode; item scans go into the
active billing. A new shipment, a new billing or a reopened billing waits
for confirmation: scan the same code again or type y, or type n to cancel.
Press Esc or Ctrl+C to stop.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		modeFlag, _ := cmd.Flags().GetString("mode")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		mode, err := app.ParseScanMode(modeFlag)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("timeout") {
			if err := wire.Config().SetScanTimeout(timeout); err != nil {
				return err
			}
		}

		source, err := openScanSource()
		if err != nil {
			return err
		}
		defer source.Close()

		out := cmd.OutOrStdout()
		session := wire.ScanSession(mode, func(o app.ScanOutcome) {
			printOutcome(out, o)
		})

		ctx, stop := signal.NotifyContext(NewContext(), os.Interrupt)
		defer stop()

		fmt.Fprintf(out, "Scanning in %s mode (Esc or Ctrl+C to stop)\r\n", session.Mode())
		if err := session.Run(ctx, source); err != nil {
			return err
		}
		fmt.Fprint(out, "Scan session ended\r\n")
		return nil
	},
})

// openScanSource puts a terminal stdin into raw mode. Piped input is read
// as-is, which lets recorded scans be replayed.
func openScanSource() (*terminal.Source, error) {
	source, err := terminal.OpenKeyboard(os.Stdin)
	if errors.Is(err, terminal.ErrNotTerminal) {
		return terminal.NewReaderSource(os.Stdin), nil
	}
	return source, err
}

// printOutcome reports one decoded scan. Lines end in \r\n because the
// terminal is in raw mode.
func printOutcome(w io.Writer, o app.ScanOutcome) {
	if o.Err != nil {
		fmt.Fprintf(w, "%s %s: %v\r\n", color.New(color.FgRed).Sprint("✗"), o.Code, o.Err)
		return
	}

	switch {
	case o.Cancelled:
		fmt.Fprintf(w, "Cancelled %s. Nothing was changed.\r\n", o.Code)
		return
	case o.Pending:
		fmt.Fprintf(w, "%s %s. Scan it again or type y to confirm, n to cancel.\r\n", color.New(color.FgYellow).Sprint("?"), pendingPrompt(o))
		return
	}

	switch o.Mode {
	case app.ScanModeShipment:
		verb := "Opened"
		if o.Kind == primary.ResolutionNew {
			verb = "Created"
		}
		fmt.Fprintf(w, "%s %s shipment %s (scan a billing next)\r\n", okMark(), verb, o.Shipment.ID)
	case app.ScanModeBilling:
		verb := "Continuing"
		switch o.Kind {
		case primary.ResolutionNew:
			verb = "Added"
		case primary.ResolutionReopen:
			verb = "Reopened"
		}
		fmt.Fprintf(w, "%s %s billing %s/%s (scan items next)\r\n", okMark(), verb, o.Shipment.ID, o.Billing.Billing.ID)
	case app.ScanModeItem:
		fmt.Fprintf(w, "%s %s → %s/%s (%d item(s))\r\n", okMark(), o.Item.Item.ID, o.Item.ShipmentID, o.Item.BillingID, o.Item.ItemCount)
	}
}

func pendingPrompt(o app.ScanOutcome) string {
	switch {
	case o.Mode == app.ScanModeShipment:
		return fmt.Sprintf("Shipment %s is new", o.Code)
	case o.Kind == primary.ResolutionReopen:
		return fmt.Sprintf("Billing %s is COMPLETED and will be reopened", o.Billing.Billing.ID)
	default:
		return fmt.Sprintf("Billing %s is new", o.Billing.Billing.ID)
	}
}

func okMark() string {
	return color.New(color.FgGreen).Sprint("✓")
}

func init() {
	scanCmd.Flags().StringP("mode", "m", string(app.ScanModeShipment), "Starting mode: shipment, billing or item")
	scanCmd.Flags().Duration("timeout", 0, "Inactivity timeout between keystrokes (default from config)")
}

// ScanCmd returns the scan command
func ScanCmd() *cobra.Command {
	return scanCmd
}
