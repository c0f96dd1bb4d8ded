// Create command for the onto CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/praxis-works/onto/pkg/types"
)

var (
	createType    string
	createProject string
	createProps   []string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an entity in its machine's initial state",
	Long: `Create inserts a new entity of the given type key. The entity starts
in the initial state of the state machine registered for the type's
prefix. Entities other than projects require --project and write
access to it.

Example:
  onto create --type project.default --prop title="Q3 launch" --user alice
  onto create --type task.example --project 0190... --prop title="Ship it" --user alice`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		props, err := parseProps(createProps)
		if err != nil {
			fmt.Fprintln(os.Stderr, "create:", err)
			os.Exit(exitUserError)
		}

		a, err := attachApp()
		if err != nil {
			fmt.Fprintln(os.Stderr, "create:", err)
			os.Exit(exitSysError)
		}
		defer a.close()

		actorID, err := requireActor(a)
		if err != nil {
			fmt.Fprintln(os.Stderr, "create:", err)
			os.Exit(exitUserError)
		}

		entity, err := a.graph.CreateEntity(createType, createProject, props, actorID)
		if err != nil {
			fmt.Fprintln(os.Stderr, "create:", err)
			if errors.Is(err, types.ErrInvalidTypeKey) || errors.Is(err, types.ErrAccessDenied) || errors.Is(err, types.ErrInvalidData) {
				os.Exit(exitUserError)
			}
			os.Exit(exitSysError)
		}

		if flagJSON {
			return printJSON(entity)
		}
		fmt.Printf("Created %s: %s (state %s)\n", entity.Kind, entity.EntityID, entity.StateKey)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&createType, "type", "", "entity type key, e.g. task.example (required)")
	createCmd.Flags().StringVar(&createProject, "project", "", "owning project entity ID")
	createCmd.Flags().StringArrayVar(&createProps, "prop", nil, "property as key=value (repeatable)")

	createCmd.MarkFlagRequired("type")
}
