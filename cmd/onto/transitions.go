// Transitions command lists the events available from an entity's state.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/praxis-works/onto/pkg/types"
)

var transitionsCmd = &cobra.Command{
	Use:   "transitions <kind> <id>",
	Short: "List transitions available from the entity's current state",
	Long: `Transitions lists the events declared from the entity's current state,
in declaration order. Guards are not evaluated; a listed event may
still be rejected when fired.

Example:
  onto transitions task 0190a1b2-...`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := args[0]
		id := args[1]

		a, err := attachApp()
		if err != nil {
			fmt.Fprintln(os.Stderr, "transitions:", err)
			os.Exit(exitSysError)
		}
		defer a.close()

		transitions, err := a.engine.AllowedTransitions(kind, id)
		if err != nil {
			fmt.Fprintln(os.Stderr, "transitions:", err)
			if errors.Is(err, types.ErrNotFound) || errors.Is(err, types.ErrInvalidTypeKey) {
				os.Exit(exitUserError)
			}
			os.Exit(exitSysError)
		}

		if flagJSON {
			return printJSON(transitions)
		}
		for _, t := range transitions {
			fmt.Printf("%-20s %s -> %s\n", t.Event, t.From, t.To)
		}
		fmt.Printf("%d transitions\n", len(transitions))
		return nil
	},
}
