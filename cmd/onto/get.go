// Get command retrieves an entity by kind and ID.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/praxis-works/onto/pkg/types"
)

var getDeleted bool

var getCmd = &cobra.Command{
	Use:   "get <kind> <id>",
	Short: "Get an entity by ID",
	Long: `Get retrieves an entity of the given kind by its ID.

Valid kinds: ` + strings.Join(types.StandardKinds, ", ") + `

Example:
  onto get task 0190a1b2-...
  onto get project 0190c3d4-... --deleted`,
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
			fmt.Fprintln(os.Stderr, "get:", err)
			os.Exit(exitSysError)
		}
		defer a.close()

		entity, err := a.graph.GetEntity(kind, id, getDeleted)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				fmt.Fprintf(os.Stderr, "%s %q not found\n", kind, id)
				os.Exit(exitUserError)
			}
			fmt.Fprintln(os.Stderr, "get:", err)
			os.Exit(exitSysError)
		}

		return printJSON(entity)
	},
}

func init() {
	getCmd.Flags().BoolVar(&getDeleted, "deleted", false, "include soft-deleted entities")
}
