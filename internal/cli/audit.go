package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/shiptrack/internal/core/policy"
	"github.com/example/shiptrack/internal/ports/primary"
	"github.com/example/shiptrack/internal/wire"
)

var auditCmd = requires(policy.CapViewAudit, &cobra.Command{
	Use:   "audit",
	Short: "Inspect and prune the audit log (admin)",
})

var auditListCmd = requires(policy.CapViewAudit, &cobra.Command{
	Use:   "list",
	Short: "List audit entries, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		shipment, _ := cmd.Flags().GetString("shipment")
		action, _ := cmd.Flags().GetString("action")
		actor, _ := cmd.Flags().GetString("actor")
		entity, _ := cmd.Flags().GetString("entity")
		limit, _ := cmd.Flags().GetInt("limit")

		return wire.AuditAdapter().List(NewContext(), primary.AuditFilters{
			ShipmentID: shipment,
			EntityType: entity,
			ActorID:    actor,
			Action:     action,
			Limit:      limit,
		})
	},
})

var auditPruneCmd = requires(policy.CapPruneAudit, &cobra.Command{
	Use:   "prune",
	Short: "Delete audit entries older than --days",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")
		if days <= 0 {
			return fmt.Errorf("--days must be positive")
		}
		return wire.AuditAdapter().Prune(NewContext(), days)
	},
})

func init() {
	auditListCmd.Flags().String("shipment", "", "Filter by shipment code")
	auditListCmd.Flags().String("action", "", "Filter by action (e.g. item_added)")
	auditListCmd.Flags().String("actor", "", "Filter by actor")
	auditListCmd.Flags().String("entity", "", "Filter by entity type (shipment, billing, item)")
	auditListCmd.Flags().IntP("limit", "n", 50, "Maximum entries to show")

	auditPruneCmd.Flags().Int("days", 0, "Retention in days (required)")
	_ = auditPruneCmd.MarkFlagRequired("days")

	auditCmd.AddCommand(auditListCmd)
	auditCmd.AddCommand(auditPruneCmd)
}

// AuditCmd returns the audit command
func AuditCmd() *cobra.Command {
	return auditCmd
}
