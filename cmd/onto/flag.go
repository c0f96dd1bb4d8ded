// Flag command manages feature flags gating the migration dual-write path.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/praxis-works/onto/pkg/types"
)

var flagCmd = &cobra.Command{
	Use:   "flag",
	Short: "Manage feature flags",
}

var flagSetCmd = &cobra.Command{
	Use:   "set <scope> <scope-id> <flag>",
	Short: "Enable or disable a feature flag",
	Long: `Flag set enables (default) or disables a flag for an org or a user.
The migration dual-write path runs when graph_dual_write is enabled
for the org OR for the initiating user.

Example:
  onto flag set org acme graph_dual_write
  onto flag set user bob graph_dual_write --off`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		scope, scopeID, name := args[0], args[1], args[2]

		if scope != types.FlagScopeOrg && scope != types.FlagScopeUser {
			fmt.Fprintf(os.Stderr, "invalid scope %q (valid: org, user)\n", scope)
			os.Exit(exitUserError)
		}

		a, err := attachApp()
		if err != nil {
			fmt.Fprintln(os.Stderr, "flag set:", err)
			os.Exit(exitSysError)
		}
		defer a.close()

		if err := a.backend.SetFlag(scope, scopeID, name, !flagSetOff); err != nil {
			fmt.Fprintln(os.Stderr, "flag set:", err)
			os.Exit(exitSysError)
		}

		state := "enabled"
		if flagSetOff {
			state = "disabled"
		}
		fmt.Printf("Flag %s %s for %s %s\n", name, state, scope, scopeID)
		return nil
	},
}

var flagSetOff bool

func init() {
	flagSetCmd.Flags().BoolVar(&flagSetOff, "off", false, "disable the flag instead of enabling it")

	flagCmd.AddCommand(flagSetCmd)
}
