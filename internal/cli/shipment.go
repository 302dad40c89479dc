package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/shiptrack/internal/core/policy"
	"github.com/example/shiptrack/internal/ports/primary"
	"github.com/example/shiptrack/internal/wire"
)

var shipmentCmd = &cobra.Command{
	Use:   "shipment",
	Short: "Manage shipments",
	Long:  "Resolve, inspect and move shipments through their lifecycle",
}

var shipmentResolveCmd = requires(policy.CapScan, &cobra.Command{
	Use:   "resolve <code>",
	Short: "Resolve a shipment code and open it as the current shipment",
	Long: `Resolve a scanned or typed shipment code. An unknown code stages a new
PENDING shipment; a known, non-final one is reopened. Either way the
shipment becomes current once confirmed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		tracking, _ := cmd.Flags().GetString("tracking")
		origin, _ := cmd.Flags().GetString("origin")
		destination, _ := cmd.Flags().GetString("destination")
		yes, _ := cmd.Flags().GetBool("yes")

		return wire.ShipmentAdapter().Resolve(NewContext(), primary.ConfirmShipmentRequest{
			Code:           args[0],
			Name:           name,
			TrackingNumber: tracking,
			Origin:         origin,
			Destination:    destination,
		}, yes)
	},
})

var shipmentShowCmd = &cobra.Command{
	Use:   "show [code]",
	Short: "Show shipment details (defaults to the current shipment)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := wire.ShipmentAdapter().Show(NewContext(), argOrEmpty(args))
		return err
	},
}

var shipmentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List shipments",
	Long:  "List shipments. Admins see every operator's shipments, users only their own.",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		creator, _ := cmd.Flags().GetString("creator")

		if !isAdmin() && globalSession != nil {
			creator = globalSession.Username
		}

		return wire.ShipmentAdapter().List(NewContext(), primary.ShipmentFilters{
			Status:  status,
			Creator: creator,
		})
	},
}

var shipmentCreateCmd = requires(policy.CapManageShipments, &cobra.Command{
	Use:   "create [code]",
	Short: "Mark a PENDING shipment as IN_PROGRESS",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.ShipmentAdapter().Create(NewContext(), argOrEmpty(args))
	},
})

var shipmentCompleteCmd = requires(policy.CapManageShipments, &cobra.Command{
	Use:   "complete [code]",
	Short: "Mark a shipment as COMPLETED",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.ShipmentAdapter().Complete(NewContext(), argOrEmpty(args))
	},
})

var shipmentCancelCmd = requires(policy.CapManageShipments, &cobra.Command{
	Use:   "cancel [code]",
	Short: "Cancel a shipment",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.ShipmentAdapter().Cancel(NewContext(), argOrEmpty(args))
	},
})

var shipmentClearCmd = requires(policy.CapManageShipments, &cobra.Command{
	Use:   "clear",
	Short: "Close the current shipment",
	Long: `Close the current shipment context. A PENDING shipment is removed with its
billings and items; one that already left PENDING stays in the ledger.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.ShipmentAdapter().Clear(NewContext())
	},
})

var shipmentDeleteCmd = requires(policy.CapDeleteShipment, &cobra.Command{
	Use:   "delete <code>",
	Short: "Delete a shipment with all its billings and items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		return wire.ShipmentAdapter().Delete(NewContext(), args[0], yes)
	},
})

var shipmentLinkCmd = &cobra.Command{
	Use:   "link [code]",
	Short: "Print the routing link of a shipment",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.ShipmentAdapter().Link(NewContext(), argOrEmpty(args))
	},
}

func init() {
	// shipment resolve flags
	shipmentResolveCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	shipmentResolveCmd.Flags().String("name", "", "Shipment name")
	shipmentResolveCmd.Flags().String("tracking", "", "Carrier tracking number")
	shipmentResolveCmd.Flags().String("origin", "", "Origin")
	shipmentResolveCmd.Flags().String("destination", "", "Destination")

	// shipment list flags
	shipmentListCmd.Flags().StringP("status", "s", "", "Filter by status")
	shipmentListCmd.Flags().String("creator", "", "Filter by creator (admin only)")

	shipmentDeleteCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	// Register subcommands
	shipmentCmd.AddCommand(shipmentResolveCmd)
	shipmentCmd.AddCommand(shipmentShowCmd)
	shipmentCmd.AddCommand(shipmentListCmd)
	shipmentCmd.AddCommand(shipmentCreateCmd)
	shipmentCmd.AddCommand(shipmentCompleteCmd)
	shipmentCmd.AddCommand(shipmentCancelCmd)
	shipmentCmd.AddCommand(shipmentClearCmd)
	shipmentCmd.AddCommand(shipmentDeleteCmd)
	shipmentCmd.AddCommand(shipmentLinkCmd)
}

// ShipmentCmd returns the shipment command
func ShipmentCmd() *cobra.Command {
	return shipmentCmd
}

func argOrEmpty(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
