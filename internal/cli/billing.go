package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/shiptrack/internal/core/policy"
	"github.com/example/shiptrack/internal/wire"
)

var billingCmd = &cobra.Command{
	Use:   "billing",
	Short: "Manage billings of the current shipment",
}

var billingAddCmd = requires(policy.CapScan, &cobra.Command{
	Use:   "add <number>",
	Short: "Add a billing to the current shipment and make it active",
	Long: `Add a 10-character billing number to the current shipment. An existing
billing is made active again; a COMPLETED one is reopened for scanning after
confirmation.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		return wire.BillingAdapter().Add(NewContext(), args[0], yes)
	},
})

var billingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List billings of the current shipment",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.BillingAdapter().List(NewContext())
	},
}

var billingCompleteCmd = requires(policy.CapScan, &cobra.Command{
	Use:   "complete <number>",
	Short: "Mark a billing as COMPLETED",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.BillingAdapter().Complete(NewContext(), args[0])
	},
})

var billingActivateCmd = requires(policy.CapScan, &cobra.Command{
	Use:   "activate <number>",
	Short: "Make a billing the active one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.BillingAdapter().Activate(NewContext(), args[0])
	},
})

var billingRemoveCmd = requires(policy.CapScan, &cobra.Command{
	Use:   "remove <number>",
	Short: "Remove a billing and its items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		return wire.BillingAdapter().Remove(NewContext(), args[0], yes)
	},
})

func init() {
	billingAddCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	billingRemoveCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	billingCmd.AddCommand(billingAddCmd)
	billingCmd.AddCommand(billingListCmd)
	billingCmd.AddCommand(billingCompleteCmd)
	billingCmd.AddCommand(billingActivateCmd)
	billingCmd.AddCommand(billingRemoveCmd)
}

// BillingCmd returns the billing command
func BillingCmd() *cobra.Command {
	return billingCmd
}
