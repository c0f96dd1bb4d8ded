// Member command manages project memberships.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/praxis-works/onto/pkg/types"
)

var memberLevel string

var memberCmd = &cobra.Command{
	Use:   "member",
	Short: "Manage project memberships",
}

var memberGrantCmd = &cobra.Command{
	Use:   "grant <project-id> <user-id>",
	Short: "Grant a user access to a project",
	Long: `Grant gives the user the specified access level on the project.
Granting again updates the level. Levels order read < write < admin;
a higher level covers the lower ones.

Example:
  onto member grant 0190a1b2-... bob --level write`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, userID := args[0], args[1]

		if memberLevel != types.LevelRead && memberLevel != types.LevelWrite && memberLevel != types.LevelAdmin {
			fmt.Fprintf(os.Stderr, "invalid level %q (valid: read, write, admin)\n", memberLevel)
			os.Exit(exitUserError)
		}

		a, err := attachApp()
		if err != nil {
			fmt.Fprintln(os.Stderr, "member grant:", err)
			os.Exit(exitSysError)
		}
		defer a.close()

		actorID, err := a.access.EnsureActor(userID)
		if err != nil {
			fmt.Fprintln(os.Stderr, "member grant:", err)
			os.Exit(exitSysError)
		}

		if err := a.access.Grant(projectID, actorID, memberLevel); err != nil {
			fmt.Fprintln(os.Stderr, "member grant:", err)
			os.Exit(exitSysError)
		}

		fmt.Printf("Granted %s %s on project %s\n", userID, memberLevel, projectID)
		return nil
	},
}

var memberRevokeCmd = &cobra.Command{
	Use:   "revoke <project-id> <user-id>",
	Short: "Revoke a user's access to a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, userID := args[0], args[1]

		a, err := attachApp()
		if err != nil {
			fmt.Fprintln(os.Stderr, "member revoke:", err)
			os.Exit(exitSysError)
		}
		defer a.close()

		actorID, err := a.access.EnsureActor(userID)
		if err != nil {
			fmt.Fprintln(os.Stderr, "member revoke:", err)
			os.Exit(exitSysError)
		}

		if err := a.access.Revoke(projectID, actorID); err != nil {
			fmt.Fprintln(os.Stderr, "member revoke:", err)
			os.Exit(exitSysError)
		}

		fmt.Printf("Revoked %s from project %s\n", userID, projectID)
		return nil
	},
}

func init() {
	memberGrantCmd.Flags().StringVar(&memberLevel, "level", types.LevelRead, "access level (read, write, admin)")

	memberCmd.AddCommand(memberGrantCmd)
	memberCmd.AddCommand(memberRevokeCmd)
}
