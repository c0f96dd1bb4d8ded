// Delete command soft-deletes an entity.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/praxis-works/onto/pkg/types"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <kind> <id>",
	Short: "Soft-delete an entity",
	Long: `Delete marks an entity as deleted without removing the row. Deleting
an already-deleted entity is a no-op.

Example:
  onto delete task 0190a1b2-... --user alice`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := args[0]
		id := args[1]

		if !types.ValidKind(kind) {
			fmt.Fprintf(os.Stderr, "unknown kind %q (valid: %s)\n", kind, strings.Join(types.StandardKinds, ", "))
			os.Exit(exitUserError)
		}

		a, err := attachApp()
		if err != nil {
			fmt.Fprintln(os.Stderr, "delete:", err)
			os.Exit(exitSysError)
		}
		defer a.close()

		actorID, err := requireActor(a)
		if err != nil {
			fmt.Fprintln(os.Stderr, "delete:", err)
			os.Exit(exitUserError)
		}

		if err := a.graph.SoftDelete(kind, id, actorID); err != nil {
			if errors.Is(err, types.ErrNotFound) || errors.Is(err, types.ErrAccessDenied) {
				fmt.Fprintln(os.Stderr, "delete:", err)
				os.Exit(exitUserError)
			}
			fmt.Fprintln(os.Stderr, "delete:", err)
			os.Exit(exitSysError)
		}

		fmt.Printf("Deleted %s: %s\n", kind, id)
		return nil
	},
}
