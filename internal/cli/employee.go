package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/shiptrack/internal/core/policy"
	"github.com/example/shiptrack/internal/ports/primary"
	"github.com/example/shiptrack/internal/wire"
)

var employeeCmd = requires(policy.CapManageEmployees, &cobra.Command{
	Use:   "employee",
	Short: "Manage employees (admin)",
})

var employeeListCmd = requires(policy.CapManageEmployees, &cobra.Command{
	Use:   "list",
	Short: "List employees",
	RunE: func(cmd *cobra.Command, args []string) error {
		role, _ := cmd.Flags().GetString("role")
		return wire.EmployeeAdapter().List(NewContext(), role)
	},
})

var employeeAddCmd = requires(policy.CapManageEmployees, &cobra.Command{
	Use:   "add <username>",
	Short: "Add an employee",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		role, _ := cmd.Flags().GetString("role")
		return wire.EmployeeAdapter().Add(NewContext(), primary.AddEmployeeRequest{
			Username: args[0],
			Name:     name,
			Role:     role,
		})
	},
})

var employeeRemoveCmd = requires(policy.CapManageEmployees, &cobra.Command{
	Use:   "remove <username>",
	Short: "Remove an employee",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.EmployeeAdapter().Remove(NewContext(), args[0])
	},
})

var employeeImportCmd = requires(policy.CapManageEmployees, &cobra.Command{
	Use:   "import <roster.yaml>",
	Short: "Create or update employees from a YAML roster",
	Long: `Import a YAML roster of the form:

  employees:
    - username: amy
      name: Amy Pond
      role: admin

The roster is validated as a whole before anything is written.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open roster: %w", err)
		}
		defer f.Close()
		return wire.EmployeeAdapter().Import(NewContext(), f)
	},
})

func init() {
	employeeListCmd.Flags().String("role", "", "Filter by role (admin or user)")

	employeeAddCmd.Flags().String("name", "", "Display name")
	employeeAddCmd.Flags().String("role", "user", "Role (admin or user)")

	employeeCmd.AddCommand(employeeListCmd)
	employeeCmd.AddCommand(employeeAddCmd)
	employeeCmd.AddCommand(employeeRemoveCmd)
	employeeCmd.AddCommand(employeeImportCmd)
}

// EmployeeCmd returns the employee command
func EmployeeCmd() *cobra.Command {
	return employeeCmd
}
