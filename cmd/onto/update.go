// Update command merges properties into an entity.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/praxis-works/onto/pkg/types"
)

var updateProps []string

var updateCmd = &cobra.Command{
	Use:   "update <kind> <id>",
	Short: "Update an entity's properties",
	Long: `Update replaces the entity's property bag with the given properties.
State changes go through fire, not update.

Example:
  onto update task 0190a1b2-... --prop title="Ship it sooner" --user alice`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := args[0]
		id := args[1]

		if !types.ValidKind(kind) {
			fmt.Fprintf(os.Stderr, "unknown kind %q (valid: %s)\n", kind, strings.Join(types.StandardKinds, ", "))
			os.Exit(exitUserError)
		}

		props, err := parseProps(updateProps)
		if err != nil {
			fmt.Fprintln(os.Stderr, "update:", err)
			os.Exit(exitUserError)
		}
		if len(props) == 0 {
			fmt.Fprintln(os.Stderr, "update: at least one --prop is required")
			os.Exit(exitUserError)
		}

		a, err := attachApp()
		if err != nil {
			fmt.Fprintln(os.Stderr, "update:", err)
			os.Exit(exitSysError)
		}
		defer a.close()

		actorID, err := requireActor(a)
		if err != nil {
			fmt.Fprintln(os.Stderr, "update:", err)
			os.Exit(exitUserError)
		}

		entity, err := a.graph.UpdateProps(kind, id, props, actorID)
		if err != nil {
			fmt.Fprintln(os.Stderr, "update:", err)
			if errors.Is(err, types.ErrNotFound) || errors.Is(err, types.ErrAccessDenied) {
				os.Exit(exitUserError)
			}
			os.Exit(exitSysError)
		}

		if flagJSON {
			return printJSON(entity)
		}
		fmt.Printf("Updated %s: %s\n", kind, entity.EntityID)
		return nil
	},
}

func init() {
	updateCmd.Flags().StringArrayVar(&updateProps, "prop", nil, "property as key=value (repeatable)")

	rootCmd.AddCommand(updateCmd)
}
