package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/shiptrack/internal/core/policy"
	"github.com/example/shiptrack/internal/wire"
)

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Scan, remove and trace items",
}

var itemAddCmd = requires(policy.CapScan, &cobra.Command{
	Use:   "add <code>",
	Short: "Add an item to the active billing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.BillingAdapter().AddItem(NewContext(), args[0])
	},
})

var itemRemoveCmd = requires(policy.CapScan, &cobra.Command{
	Use:   "remove <billing> <code>",
	Short: "Remove an item from a billing of the current shipment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.BillingAdapter().RemoveItem(NewContext(), args[0], args[1])
	},
})

var itemTraceCmd = &cobra.Command{
	Use:   "trace <code>",
	Short: "Show every shipment and billing an item was scanned into",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.BillingAdapter().TraceItem(NewContext(), args[0])
	},
}

func init() {
	itemCmd.AddCommand(itemAddCmd)
	itemCmd.AddCommand(itemRemoveCmd)
	itemCmd.AddCommand(itemTraceCmd)
}

// ItemCmd returns the item command
func ItemCmd() *cobra.Command {
	return itemCmd
}
