// Fire command executes a state transition on an entity.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/praxis-works/onto/pkg/types"
)

var fireCmd = &cobra.Command{
	Use:   "fire <kind> <id> <event>",
	Short: "Fire a transition event on an entity",
	Long: `Fire executes the named event against the entity's state machine.
Guards run before the state change and reject the whole transition on
failure. Actions run after the state change; their failures are
reported but do not roll the transition back.

Example:
  onto fire task 0190a1b2-... start --user alice`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, id, event := args[0], args[1], args[2]

		a, err := attachApp()
		if err != nil {
			fmt.Fprintln(os.Stderr, "fire:", err)
			os.Exit(exitSysError)
		}
		defer a.close()

		actorID, err := requireActor(a)
		if err != nil {
			fmt.Fprintln(os.Stderr, "fire:", err)
			os.Exit(exitUserError)
		}

		result, err := a.engine.Fire(kind, id, event, actorID)
		if err != nil {
			var guardErr *types.GuardError
			switch {
			case errors.As(err, &guardErr):
				fmt.Fprintf(os.Stderr, "fire: guard %q rejected: %s\n", guardErr.Guard, guardErr.Reason)
				os.Exit(exitUserError)
			case errors.Is(err, types.ErrTransitionConflict):
				fmt.Fprintln(os.Stderr, "fire: entity changed state concurrently; re-check and retry")
				os.Exit(exitUserError)
			case errors.Is(err, types.ErrNoSuchTransition),
				errors.Is(err, types.ErrNotFound),
				errors.Is(err, types.ErrAccessDenied):
				fmt.Fprintln(os.Stderr, "fire:", err)
				os.Exit(exitUserError)
			default:
				fmt.Fprintln(os.Stderr, "fire:", err)
				os.Exit(exitSysError)
			}
		}

		for _, actionErr := range result.ActionErrors {
			fmt.Fprintln(os.Stderr, "warning: action failed:", actionErr)
		}

		if flagJSON {
			return printJSON(result.Entity)
		}
		fmt.Printf("Fired %s on %s %s: now %s\n", event, kind, id, result.Entity.StateKey)
		return nil
	},
}
